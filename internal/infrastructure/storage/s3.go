package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"givora.backend/internal/domain/entities"
)

// objectAPI is the subset of the S3 client used by S3Store
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store persists images in an S3 bucket
type S3Store struct {
	client        objectAPI
	bucket        string
	region        string
	publicBaseURL string
}

var loadAWSConfig = config.LoadDefaultConfig

// NewS3Store builds an S3 client from the default credential chain
func NewS3Store(ctx context.Context, bucket, region, publicBaseURL string) (*S3Store, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}
	cfg, err := loadAWSConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	return newS3Store(s3.NewFromConfig(cfg), bucket, region, publicBaseURL), nil
}

func newS3Store(client objectAPI, bucket, region, publicBaseURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region, publicBaseURL: publicBaseURL}
}

// Save validates the upload and puts it under folder, returning its key.
func (s *S3Store) Save(ctx context.Context, folder string, upload *entities.Upload) (string, error) {
	data, contentType, err := readImage(upload)
	if err != nil {
		return "", err
	}
	key := newKey(folder, contentType)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload to s3: %w", err)
	}
	return key, nil
}

// Delete removes an object
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete from s3: %w", err)
	}
	return nil
}

// URL returns the public URL of key
func (s *S3Store) URL(key string) string {
	if isAbsoluteURL(key) {
		return key
	}
	if s.publicBaseURL != "" {
		return joinURL(s.publicBaseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
