package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nurinuri/codec"
	"nurinuri/core"
)

// ArtworkPrefix is the key prefix for artworks.
const ArtworkPrefix = "artwork:"

type badgerStore struct {
	db *badger.DB
}

// NewStore opens a Badger database in dir. An empty dir keeps everything in
// memory.
func NewStore(dir string) (*badgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &badgerStore{db: db}, nil
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}

func artworkKey(id uuid.UUID) []byte {
	return []byte(ArtworkPrefix + id.String())
}

func (s *badgerStore) List(ctx context.Context) ([]*core.Artwork, error) {
	artworks := []*core.Artwork{}
	prefix := []byte(ArtworkPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				artwork, err := codec.UnmarshalArtwork(val)
				if err != nil {
					logrus.WithError(err).WithField("key", string(item.Key())).Warn("Failed to decode artwork, skipping")
					return nil
				}
				artworks = append(artworks, artwork)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to list artworks")
		return nil, err
	}

	logrus.Debugf("Listed %d artworks", len(artworks))
	return artworks, nil
}

func (s *badgerStore) Get(ctx context.Context, id uuid.UUID) (*core.Artwork, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(artworkKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			logrus.WithField("artwork_id", id).Warn("Artwork not found")
			return nil, fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
		}
		return nil, err
	}
	return codec.UnmarshalArtwork(data)
}

func (s *badgerStore) Save(ctx context.Context, artwork *core.Artwork) error {
	if artwork.ID == uuid.Nil {
		return errors.New("artwork id is required")
	}
	data, err := codec.MarshalArtwork(artwork)
	if err != nil {
		return fmt.Errorf("encode artwork: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(artworkKey(artwork.ID), data)
	})
	if err != nil {
		logrus.WithError(err).WithField("artwork_id", artwork.ID).Error("Failed to save artwork")
		return err
	}
	return nil
}

func (s *badgerStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := artworkKey(id)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
		}
		logrus.WithError(err).WithField("artwork_id", id).Error("Failed to delete artwork")
		return err
	}

	logrus.WithField("artwork_id", id).Info("Artwork deleted successfully")
	return nil
}
