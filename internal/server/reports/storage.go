package reports

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
	"github.com/google/uuid"

	sc "github.com/ledgerkeep/ledgerkeep/internal/server/config"
)

const presignValidity = 15 * time.Minute

// Store uploads a rendered report and returns a time-limited download URL.
type Store interface {
	Put(ctx context.Context, year, month int, pdf []byte) (string, error)
}

// S3Store keeps report PDFs in an S3-compatible bucket (MinIO locally) and
// serves them through presigned GET URLs. The client is built once on first
// use and shared by all uploads.
type S3Store struct {
	config *sc.Config

	once      sync.Once
	client    *s3.Client
	clientErr error
}

func NewS3Store(config *sc.Config) *S3Store {
	return &S3Store{config: config}
}

// storageKey places reports under reports/<year>/<month>/<uuid>.pdf.
func storageKey(year, month int) string {
	return fmt.Sprintf("reports/%d/%d/%v.pdf", year, month, uuid.New())
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	s.once.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(s.config.S3Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				s.config.S3RootUser,     // MINIO_ROOT_USER
				s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
				"",
			)))
		if err != nil {
			s.clientErr = err
			return
		}

		s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		})
	})

	return s.client, s.clientErr
}

func (s *S3Store) Put(ctx context.Context, year, month int, pdf []byte) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := storageKey(year, month)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", err
	}

	presignClient := s3.NewPresignClient(client)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
