// Package photos archives uploaded meal images: the raw bytes go to an
// S3-compatible object store, a metadata row per upload goes to the
// relational store, and display happens through presigned GET URLs.
package photos

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dkovalev/nutrigenie/internal/common"
	sc "github.com/dkovalev/nutrigenie/internal/server/config"
)

// ListLimit caps how many archived photos one listing returns.
const ListLimit = 50

const presignExpiry = 15 * time.Minute

type Service struct {
	repo   Repository
	config *sc.Config

	s3Once   sync.Once
	s3Client *s3.Client
	s3Err    error
}

func NewService(repo Repository, config *sc.Config) *Service {
	return &Service{
		repo:   repo,
		config: config,
	}
}

// GetRandomStorageKey builds a date-bucketed object key for one upload.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("meals/%d/%d/%d/%s", d.Year(), d.Month(), d.Day(), common.MakeRandHexString(16))
}

// getS3Client resolves credentials once and reuses the client; the settings
// never change within a process.
func (s *Service) getS3Client(ctx context.Context) (*s3.Client, error) {
	s.s3Once.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(s.config.S3Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				s.config.S3RootUser,
				s.config.S3RootPassword,
				"",
			)))
		if err != nil {
			s.s3Err = err
			return
		}

		s.s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		})
	})

	return s.s3Client, s.s3Err
}

// Upload stores the image bytes as a new object and records a metadata row
// for the owning account.
func (s *Service) Upload(ctx context.Context, userID int64, contentType string, data []byte) (*Photo, error) {

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("error uploading photo: %w", err)
	}

	photo := &Photo{UserID: userID, ObjectKey: key, ContentType: contentType}
	photo, err = s.repo.Create(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("error recording photo: %w", err)
	}

	return photo, nil
}

// GetPresignedGetUrl returns a short-lived URL for displaying one archived
// photo.
func (s *Service) GetPresignedGetUrl(ctx context.Context, key string) (string, error) {

	client, err := s.getS3Client(ctx)
	if err != nil {
		return "", err
	}

	presignClient := s3.NewPresignClient(client)
	bucket := s.config.S3Bucket

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// List returns the account's archived photos, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]Photo, error) {
	return s.repo.ListByUser(ctx, userID, ListLimit)
}
