package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"nurinuri/config"
	"nurinuri/core"
	"nurinuri/stores/aws"
	"nurinuri/stores/badger"
	"nurinuri/stores/filesystem"
	"nurinuri/stores/memory"
	"nurinuri/stores/postgres"
	"nurinuri/stores/sqlite"
)

// GetStore builds the artwork store selected by cfg.StorageType. Stores that
// hold resources also implement io.Closer.
func GetStore(ctx context.Context, cfg config.Config) (core.ArtworkStore, error) {
	var (
		store core.ArtworkStore
		err   error
	)

	storageField := logrus.Fields{
		"storageType": cfg.StorageType,
	}

	switch cfg.StorageType {
	case "filesystem":
		storageField["basePath"] = cfg.LocalStoragePath
		store, err = filesystem.NewStore(cfg.LocalStoragePath)
	case "sqlite":
		storageField["dataSourceName"] = cfg.DataSourceName
		store, err = sqlite.NewStore(cfg.DataSourceName)
	case "s3":
		if cfg.S3BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME environment variable must be set for s3 storage type")
		}
		storageField["bucketName"] = cfg.S3BucketName
		storageField["prefix"] = cfg.S3Prefix
		store, err = aws.NewStore(ctx, cfg.S3BucketName, cfg.S3Prefix)
	case "badger":
		storageField["path"] = cfg.BadgerPath
		store, err = badger.NewStore(cfg.BadgerPath)
	case "postgres":
		if cfg.DBURL == "" {
			return nil, errors.New("DB_URL environment variable must be set for postgres storage type")
		}
		store, err = postgres.NewStore(cfg.DBURL)
	case "", "memory":
		store = memory.NewStore()
		storageField["storageType"] = "in-memory"
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s storage: %w", cfg.StorageType, err)
	}

	logrus.WithFields(storageField).Info("Use storage")
	return store, nil
}
