package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"drivebox/internal/config"
	"drivebox/internal/domain"
)

// S3Store implements Store for AWS S3 and S3-compatible providers.
type S3Store struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	publicURL string
}

// NewS3Store creates an S3 blob store from configuration.
func NewS3Store(cfg *config.Config) (*S3Store, error) {
	awsCfg := aws.Config{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3ForcePathStyle
	})

	return &S3Store{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.S3Bucket,
		publicURL: cfg.S3PublicURL,
	}, nil
}

// Upload streams a blob to S3 and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object %q: %v", domain.ErrExternalStore, key, err)
	}

	return s.PublicURL(key), nil
}

// Delete removes the blob stored under key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete object %q: %v", domain.ErrExternalStore, key, err)
	}
	return nil
}

// Rename updates the blob's download filename. S3 metadata is immutable, so
// this copies the object onto itself with a replaced Content-Disposition.
func (s *S3Store) Rename(ctx context.Context, key, newName string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		CopySource:         aws.String(url.PathEscape(s.bucket + "/" + key)),
		MetadataDirective:  types.MetadataDirectiveReplace,
		ContentDisposition: aws.String(fmt.Sprintf("inline; filename=%q", newName)),
	})
	if err != nil {
		return fmt.Errorf("%w: rename object %q: %v", domain.ErrExternalStore, key, err)
	}
	return nil
}

// PresignGet returns a short-lived download URL for the blob.
func (s *S3Store) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("%w: presign object %q: %v", domain.ErrExternalStore, key, err)
	}
	return request.URL, nil
}

// PublicURL returns the durable public URL for a key.
func (s *S3Store) PublicURL(key string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
