package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds S3/MinIO configuration
type S3Config struct {
	Endpoint        string // e.g., "http://localhost:9000" for MinIO
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	PublicURL       string // Public URL for accessing files (e.g., "http://localhost:9000/exports")
}

// S3Storage stores generated export files in S3-compatible storage
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Storage creates a new S3 storage client
func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	// Create S3 client with static credentials and custom endpoint
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		UsePathStyle: true, // Required for MinIO
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}, nil
}

// ExportFormat is the file format of a stored export
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// PutExportInput represents input for storing an export file
type PutExportInput struct {
	UserID  string
	Format  ExportFormat
	Content []byte
}

// PutExportOutput represents output from storing an export file
type PutExportOutput struct {
	Key        string // Object key in S3
	URL        string // Public URL to access the file
	Size       int64
	UploadedAt time.Time
}

// PutExport uploads a generated export and returns its public URL.
// Keys are date-partitioned per user so retention can prune by prefix.
func (s *S3Storage) PutExport(ctx context.Context, in PutExportInput) (*PutExportOutput, error) {
	now := time.Now()
	key := fmt.Sprintf("exports/%s/%s/%s.%s",
		in.UserID, now.Format("2006/01/02"), uuid.New().String(), in.Format)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(in.Content),
		ContentType:   aws.String(contentTypeFor(in.Format)),
		ContentLength: aws.Int64(int64(len(in.Content))),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading export to s3: %w", err)
	}

	return &PutExportOutput{
		Key:        key,
		URL:        fmt.Sprintf("%s/%s", s.publicURL, key),
		Size:       int64(len(in.Content)),
		UploadedAt: now,
	}, nil
}

// Delete removes an export file from S3
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting export from s3: %w", err)
	}
	return nil
}

func contentTypeFor(format ExportFormat) string {
	switch format {
	case FormatJSON:
		return "application/json"
	default:
		return "text/csv"
	}
}
