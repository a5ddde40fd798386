package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nurinuri/core"
)

// memStore keeps artworks in process memory. Records are copied on the way
// in and out so callers never share state with the store.
type memStore struct {
	mu       sync.RWMutex
	artworks map[uuid.UUID]*core.Artwork
	order    []uuid.UUID
}

// NewStore creates a new in-memory store.
func NewStore() *memStore {
	return &memStore{
		artworks: make(map[uuid.UUID]*core.Artwork),
	}
}

// List returns every artwork in the order it was first saved.
func (s *memStore) List(ctx context.Context) ([]*core.Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artworks := make([]*core.Artwork, 0, len(s.order))
	for _, id := range s.order {
		artworks = append(artworks, s.artworks[id].Clone())
	}

	logrus.Debugf("Listed %d artworks", len(artworks))
	return artworks, nil
}

func (s *memStore) Get(ctx context.Context, id uuid.UUID) (*core.Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := logrus.WithField("artwork_id", id)
	artwork, ok := s.artworks[id]
	if !ok {
		log.Warn("Artwork not found")
		return nil, fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
	}

	log.Debug("Artwork retrieved successfully")
	return artwork.Clone(), nil
}

func (s *memStore) Save(ctx context.Context, artwork *core.Artwork) error {
	if artwork.ID == uuid.Nil {
		return fmt.Errorf("artwork ID cannot be empty for save operation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.artworks[artwork.ID]; !exists {
		s.order = append(s.order, artwork.ID)
	}
	s.artworks[artwork.ID] = artwork.Clone()

	logrus.WithFields(logrus.Fields{
		"artwork_id":  artwork.ID,
		"shape_count": len(artwork.Shapes),
	}).Debug("Artwork saved successfully")
	return nil
}

func (s *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logrus.WithField("artwork_id", id)
	if _, ok := s.artworks[id]; !ok {
		log.Warn("Artwork not found for deletion")
		return fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
	}

	delete(s.artworks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	log.Debug("Artwork deleted successfully")
	return nil
}
