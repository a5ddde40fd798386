package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"nurinuri/codec"
	"nurinuri/core"
)

// artworkRecord is the table row: metadata columns plus the encoded artwork.
type artworkRecord struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:text;not null"`
	IsFavorite bool      `gorm:"not null;default:false;index"`
	CreatedAt  time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime:false"`
	Data       []byte    `gorm:"type:bytea;not null"`
}

func (artworkRecord) TableName() string { return "artworks" }

type pgStore struct {
	db *gorm.DB
}

// NewStore connects to Postgres and migrates the artworks table.
func NewStore(dsn string) (*pgStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(&artworkRecord{}); err != nil {
		return nil, fmt.Errorf("migrate artworks table: %w", err)
	}
	return &pgStore{db: db}, nil
}

func (s *pgStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(a *core.Artwork) (artworkRecord, error) {
	data, err := codec.MarshalArtwork(a)
	if err != nil {
		return artworkRecord{}, err
	}
	return artworkRecord{
		ID:         a.ID.String(),
		Name:       a.Name,
		IsFavorite: a.IsFavorite,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		Data:       data,
	}, nil
}

func fromRecord(r artworkRecord) (*core.Artwork, error) {
	a, err := codec.UnmarshalArtwork(r.Data)
	if err != nil {
		return nil, fmt.Errorf("decode artwork %s: %w", r.ID, err)
	}
	return a, nil
}

func upsert() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_favorite", "updated_at", "data"}),
	}
}

func (s *pgStore) List(ctx context.Context) ([]*core.Artwork, error) {
	var records []artworkRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		logrus.WithError(err).Error("Failed to list artworks")
		return nil, err
	}

	artworks := make([]*core.Artwork, 0, len(records))
	for _, r := range records {
		a, err := fromRecord(r)
		if err != nil {
			logrus.WithError(err).WithField("artwork_id", r.ID).Warn("Skipping undecodable artwork")
			continue
		}
		artworks = append(artworks, a)
	}
	return artworks, nil
}

func (s *pgStore) Get(ctx context.Context, id uuid.UUID) (*core.Artwork, error) {
	var r artworkRecord
	err := s.db.WithContext(ctx).First(&r, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("artwork_id", id).Warn("Artwork not found")
			return nil, fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
		}
		return nil, err
	}
	return fromRecord(r)
}

func (s *pgStore) Save(ctx context.Context, artwork *core.Artwork) error {
	if artwork.ID == uuid.Nil {
		return errors.New("artwork id is required")
	}
	r, err := toRecord(artwork)
	if err != nil {
		return fmt.Errorf("encode artwork: %w", err)
	}

	if err := s.db.WithContext(ctx).Clauses(upsert()).Create(&r).Error; err != nil {
		logrus.WithError(err).WithField("artwork_id", artwork.ID).Error("Failed to save artwork")
		return err
	}
	return nil
}

func (s *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&artworkRecord{}, "id = ?", id.String())
	if res.Error != nil {
		logrus.WithError(res.Error).WithField("artwork_id", id).Error("Failed to delete artwork")
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
	}

	logrus.WithField("artwork_id", id).Info("Artwork deleted successfully")
	return nil
}
