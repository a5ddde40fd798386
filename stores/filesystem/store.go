package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nurinuri/codec"
	"nurinuri/core"
)

const fileExt = ".json"

type fsStore struct {
	basePath string
}

// NewStore creates a filesystem-backed artwork store rooted at basePath.
func NewStore(basePath string) (*fsStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory: %w", err)
	}
	return &fsStore{basePath: abs}, nil
}

func (s *fsStore) artworkPath(id uuid.UUID) (string, error) {
	filePath := filepath.Join(s.basePath, id.String()+fileExt)

	// Files must stay inside basePath.
	if !strings.HasPrefix(filePath, s.basePath+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid path: access denied")
	}
	return filePath, nil
}

func (s *fsStore) List(ctx context.Context) ([]*core.Artwork, error) {
	log := logrus.WithField("path", s.basePath)

	files, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("Storage directory does not exist, returning empty list.")
			return []*core.Artwork{}, nil
		}
		log.WithError(err).Error("Failed to read storage directory")
		return nil, err
	}

	artworks := make([]*core.Artwork, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), fileExt) {
			continue
		}
		if _, err := uuid.Parse(strings.TrimSuffix(file.Name(), fileExt)); err != nil {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, file.Name()))
		if err != nil {
			log.WithError(err).Warnf("Failed to read artwork file %s, skipping", file.Name())
			continue
		}
		artwork, err := codec.UnmarshalArtwork(data)
		if err != nil {
			log.WithError(err).Warnf("Failed to decode artwork file %s, skipping", file.Name())
			continue
		}
		artworks = append(artworks, artwork)
	}

	log.Infof("Listed %d artworks", len(artworks))
	return artworks, nil
}

func (s *fsStore) Get(ctx context.Context, id uuid.UUID) (*core.Artwork, error) {
	filePath, err := s.artworkPath(id)
	if err != nil {
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{"artwork_id": id, "path": filePath})

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Artwork file not found")
			return nil, fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
		}
		log.WithError(err).Error("Failed to read artwork file")
		return nil, err
	}

	artwork, err := codec.UnmarshalArtwork(data)
	if err != nil {
		log.WithError(err).Error("Failed to decode artwork")
		return nil, err
	}

	log.Debug("Artwork retrieved successfully")
	return artwork, nil
}

// Save writes the artwork to a temp file in the same directory and renames it
// into place, so readers never observe a partial record.
func (s *fsStore) Save(ctx context.Context, artwork *core.Artwork) error {
	if artwork.ID == uuid.Nil {
		return errors.New("artwork id is required")
	}
	filePath, err := s.artworkPath(artwork.ID)
	if err != nil {
		return err
	}
	log := logrus.WithFields(logrus.Fields{"artwork_id": artwork.ID, "path": filePath})

	data, err := codec.MarshalArtwork(artwork)
	if err != nil {
		log.WithError(err).Error("Failed to encode artwork for saving")
		return err
	}

	tmp, err := os.CreateTemp(s.basePath, ".artwork-*")
	if err != nil {
		log.WithError(err).Error("Failed to create temp file")
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		log.WithError(err).Error("Failed to write artwork file")
		return err
	}
	if err := tmp.Close(); err != nil {
		log.WithError(err).Error("Failed to close artwork file")
		return err
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		log.WithError(err).Error("Failed to move artwork file into place")
		return err
	}

	log.Debug("Artwork saved")
	return nil
}

func (s *fsStore) Delete(ctx context.Context, id uuid.UUID) error {
	filePath, err := s.artworkPath(id)
	if err != nil {
		return err
	}
	log := logrus.WithFields(logrus.Fields{"artwork_id": id, "path": filePath})

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			log.Warn("Artwork file not found for deletion")
			return fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
		}
		log.WithError(err).Error("Failed to delete artwork file")
		return err
	}

	log.Info("Artwork deleted successfully")
	return nil
}
