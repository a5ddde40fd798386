package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nurinuri/codec"
	"nurinuri/core"
)

// s3API is the subset of the S3 client the store needs.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type s3Store struct {
	s3Client s3API
	bucket   string
	prefix   string
}

// NewStore creates an S3-backed store using the default AWS credential chain.
func NewStore(ctx context.Context, bucketName, prefix string) (*s3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return newStoreWithClient(s3.NewFromConfig(cfg), bucketName, prefix), nil
}

func newStoreWithClient(client s3API, bucketName, prefix string) *s3Store {
	return &s3Store{
		s3Client: client,
		bucket:   bucketName,
		prefix:   prefix,
	}
}

func (s *s3Store) artworkKey(id uuid.UUID) string {
	return s.prefix + id.String() + ".json"
}

func (s *s3Store) List(ctx context.Context) ([]*core.Artwork, error) {
	log := logrus.WithFields(logrus.Fields{"bucket": s.bucket, "prefix": s.prefix})

	artworks := []*core.Artwork{}
	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to list artworks")
			return nil, fmt.Errorf("failed to list artworks: %w", err)
		}

		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			name := strings.TrimPrefix(key, s.prefix)
			if !strings.HasSuffix(name, ".json") || strings.Contains(name, "/") {
				continue
			}

			artwork, err := s.fetch(ctx, key)
			if err != nil {
				log.WithError(err).Warnf("Failed to load object %s, skipping", key)
				continue
			}
			artworks = append(artworks, artwork)
		}
	}

	log.Debugf("Listed %d artworks", len(artworks))
	return artworks, nil
}

func (s *s3Store) Get(ctx context.Context, id uuid.UUID) (*core.Artwork, error) {
	artwork, err := s.fetch(ctx, s.artworkKey(id))
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			logrus.WithField("artwork_id", id).Warn("Artwork not found")
			return nil, fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
		}
		return nil, fmt.Errorf("failed to get artwork %s: %w", id, err)
	}
	return artwork, nil
}

func (s *s3Store) fetch(ctx context.Context, key string) (*core.Artwork, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork data: %w", err)
	}
	return codec.UnmarshalArtwork(data)
}

func (s *s3Store) Save(ctx context.Context, artwork *core.Artwork) error {
	if artwork.ID == uuid.Nil {
		return errors.New("artwork id is required")
	}

	data, err := codec.MarshalArtwork(artwork)
	if err != nil {
		return fmt.Errorf("failed to encode artwork: %w", err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.artworkKey(artwork.ID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to save artwork %s: %w", artwork.ID, err)
	}

	logrus.WithFields(logrus.Fields{
		"artwork_id":  artwork.ID,
		"data_length": len(data),
	}).Debug("Artwork uploaded")
	return nil
}

// Delete checks for the object first; S3 deletes succeed for missing keys.
func (s *s3Store) Delete(ctx context.Context, id uuid.UUID) error {
	key := s.artworkKey(id)

	_, err := s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return fmt.Errorf("%w: %s", core.ErrArtworkNotFound, id)
		}
		return fmt.Errorf("failed to check artwork %s: %w", id, err)
	}

	_, err = s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete artwork %s: %w", id, err)
	}

	logrus.WithField("artwork_id", id).Info("Artwork deleted successfully")
	return nil
}
