package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cloo-solutions/folio/internal/domain"
)

const (
	DefaultResumeKey   = "resume.pdf"
	DefaultDownloadTTL = 15 * time.Minute

	resumeContentType = "application/pdf"
	resumeDisposition = `inline; filename="resume.pdf"`
)

// ResumeStoreConfig holds configuration for ResumeStore
type ResumeStoreConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	ObjectKey       string
	UsePathStyle    bool
	DownloadTTL     time.Duration
}

// ResumeStore serves the hosted resume PDF from S3-compatible storage
// (AWS S3, RustFS, MinIO).
type ResumeStore struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	key           string
	downloadTTL   time.Duration
}

// NewResumeStore creates a new ResumeStore with the given configuration
func NewResumeStore(ctx context.Context, cfg ResumeStoreConfig) (*ResumeStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("resume store: bucket is required")
	}
	if cfg.ObjectKey == "" {
		cfg.ObjectKey = DefaultResumeKey
	}
	if cfg.DownloadTTL <= 0 {
		cfg.DownloadTTL = DefaultDownloadTTL
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &ResumeStore{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		key:           cfg.ObjectKey,
		downloadTTL:   cfg.DownloadTTL,
	}, nil
}

// Key returns the object key of the resume.
func (s *ResumeStore) Key() string {
	return s.key
}

// DownloadURL returns a presigned GET URL for the resume. It returns
// domain.ErrResumeUnavailable when the object does not exist.
func (s *ResumeStore) DownloadURL(ctx context.Context) (string, error) {
	if _, err := s.Head(ctx); err != nil {
		return "", err
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(s.key),
		ResponseContentType:        aws.String(resumeContentType),
		ResponseContentDisposition: aws.String(resumeDisposition),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.downloadTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}

	return req.URL, nil
}

// ObjectMetadata contains metadata about the stored resume
type ObjectMetadata struct {
	ContentLength int64
	ContentType   string
	ETag          string
	LastModified  time.Time
}

// Head returns the resume's metadata.
func (s *ResumeStore) Head(ctx context.Context) (*ObjectMetadata, error) {
	output, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, domain.ErrResumeUnavailable
		}
		return nil, fmt.Errorf("failed to head object: %w", err)
	}

	return &ObjectMetadata{
		ContentLength: aws.ToInt64(output.ContentLength),
		ContentType:   aws.ToString(output.ContentType),
		ETag:          aws.ToString(output.ETag),
		LastModified:  aws.ToTime(output.LastModified),
	}, nil
}

// Upload replaces the stored resume with body.
func (s *ResumeStore) Upload(ctx context.Context, body io.ReadSeeker, size int64) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(resumeContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload resume: %w", err)
	}
	return nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ResumeStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}
