package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"micronet/internal/config"
	"micronet/internal/model"
)

const (
	photoFolder       = "profiles"
	photoCacheControl = "public, max-age=31536000, immutable"
)

// PhotoStore persists profile photos in an object store.
type PhotoStore interface {
	// Upload stores the photo bytes and returns its public URL and
	// storage key.
	Upload(ctx context.Context, data []byte, contentType string) (url, key string, err error)
	Delete(ctx context.Context, key string) error
}

// S3PhotoStore implements PhotoStore on any S3-compatible endpoint.
type S3PhotoStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3PhotoStore(ctx context.Context, cfg *config.Config) (*S3PhotoStore, error) {
	if cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "" || cfg.S3BucketName == "" || cfg.S3PublicURL == "" {
		return nil, fmt.Errorf("missing object storage configuration")
	}

	region := cfg.S3Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3PhotoStore{
		client:    client,
		bucket:    cfg.S3BucketName,
		publicURL: strings.TrimSuffix(cfg.S3PublicURL, "/"),
	}, nil
}

// Upload re-encodes the photo to strip anything that is not image data
// and stores it under a random key.
func (s *S3PhotoStore) Upload(ctx context.Context, data []byte, contentType string) (string, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("decode photo: %w", err)
	}

	var buf bytes.Buffer
	ext := ".png"
	if contentType == model.ContentTypeJPEG {
		ext = ".jpg"
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90))
	} else {
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return "", "", fmt.Errorf("encode photo: %w", err)
	}

	key := fmt.Sprintf("%s/%s%s", photoFolder, uuid.NewString(), ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(buf.Bytes()),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(photoCacheControl),
	})
	if err != nil {
		return "", "", fmt.Errorf("put photo object: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), key, nil
}

func (s *S3PhotoStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete photo object: %w", err)
	}
	return nil
}
