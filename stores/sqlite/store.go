package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"nurinuri/codec"
	"nurinuri/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS artworks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	data BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artworks_created_at ON artworks(created_at);`

type sqliteStore struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database and ensures the schema.
func NewStore(dataSourceName string) (*sqliteStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection; SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create artworks table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) List(ctx context.Context) ([]*core.Artwork, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, data FROM artworks ORDER BY created_at, id")
	if err != nil {
		logrus.WithError(err).Error("Failed to list artworks")
		return nil, err
	}
	defer rows.Close()

	artworks := []*core.Artwork{}
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		artwork, err := codec.UnmarshalArtwork(data)
		if err != nil {
			logrus.WithError(err).WithField("artwork_id", id).Warn("Failed to decode artwork row, skipping")
			continue
		}
		artworks = append(artworks, artwork)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logrus.Debugf("Listed %d artworks", len(artworks))
	return artworks, nil
}

func (s *sqliteStore) Get(ctx context.Context, id uuid.UUID) (*core.Artwork, error) {
	log := logrus.WithField("artwork_id", id)

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM artworks WHERE id = ?", id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("Artwork not found")
			return nil, fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
		}
		log.WithError(err).Error("Failed to retrieve artwork")
		return nil, err
	}

	artwork, err := codec.UnmarshalArtwork(data)
	if err != nil {
		log.WithError(err).Error("Failed to decode artwork")
		return nil, err
	}
	return artwork, nil
}

func (s *sqliteStore) Save(ctx context.Context, artwork *core.Artwork) error {
	if artwork.ID == uuid.Nil {
		return errors.New("artwork id is required")
	}
	log := logrus.WithField("artwork_id", artwork.ID)

	data, err := codec.MarshalArtwork(artwork)
	if err != nil {
		log.WithError(err).Error("Failed to encode artwork")
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO artworks (id, name, is_favorite, created_at, updated_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_favorite = excluded.is_favorite,
			updated_at = excluded.updated_at,
			data = excluded.data`,
		artwork.ID.String(),
		artwork.Name,
		artwork.IsFavorite,
		formatTime(artwork.CreatedAt),
		formatTime(artwork.UpdatedAt),
		data,
	)
	if err != nil {
		log.WithError(err).Error("Failed to save artwork")
		return err
	}

	log.WithField("data_length", len(data)).Debug("Artwork saved")
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logrus.WithField("artwork_id", id)

	res, err := s.db.ExecContext(ctx, "DELETE FROM artworks WHERE id = ?", id.String())
	if err != nil {
		log.WithError(err).Error("Failed to delete artwork")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Warn("Artwork not found for deletion")
		return fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
	}

	log.Info("Artwork deleted successfully")
	return nil
}

// formatTime gives timestamps a fixed-width UTC form so they sort as text.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}
