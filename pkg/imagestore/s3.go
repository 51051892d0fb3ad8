package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/kadrportal/media/pkg/sniff"
	"github.com/kadrportal/media/pkg/thumbnail"
)

// S3Client is the subset of the S3 API used by S3Store. Kept as an interface
// so tests can substitute a mock.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures the S3-compatible backend.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`                       // Optional, for MinIO and friends
	Prefix         string `env:"S3_PREFIX" envDefault:"listings/"`  // Key prefix for both artifacts
	BaseURL        string `env:"S3_BASE_URL"`                       // Public URL base for serving artifacts
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// S3Store implements Store on an S3-compatible bucket. The artifact pair
// shares the same id-based naming as LocalStore, under an optional key
// prefix. Safe for concurrent use.
type S3Store struct {
	client  S3Client
	bucket  string
	prefix  string
	baseURL string
}

// S3Option configures optional S3Store behavior.
type S3Option func(*S3Store)

// WithS3Client sets a pre-configured client, bypassing AWS config loading.
// Useful for tests.
func WithS3Client(client S3Client) S3Option {
	return func(s *S3Store) {
		s.client = client
	}
}

// NewS3Store creates an S3-backed store for the configured bucket.
func NewS3Store(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrInvalidConfig
	}

	baseURL := cfg.BaseURL
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	store := &S3Store{
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		baseURL: baseURL,
	}

	for _, opt := range opts {
		opt(store)
	}

	if store.client == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}

		store.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return store, nil
}

// Persist validates the upload, stores the original object and its thumbnail.
// If the thumbnail cannot be produced or stored, the original object is
// deleted before the error is surfaced.
func (s *S3Store) Persist(ctx context.Context, fh *multipart.FileHeader) (Descriptor, error) {
	if err := validateUpload(fh); err != nil {
		return Descriptor{}, err
	}

	data, err := readUpload(fh)
	if err != nil {
		return Descriptor{}, err
	}

	media, err := sniff.Detect(data)
	if err != nil {
		return Descriptor{}, err
	}

	id, err := NewID(media)
	if err != nil {
		return Descriptor{}, err
	}

	originalKey := s.prefix + id
	thumbKey := s.prefix + ThumbPrefix + id

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(originalKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(media.MIME()),
	}); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	thumb, err := thumbnail.Generate(bytes.NewReader(data), media, ThumbWidth, ThumbHeight)
	if err != nil {
		s.deleteObject(ctx, originalKey)
		return Descriptor{}, err
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(thumbKey),
		Body:        bytes.NewReader(thumb),
		ContentType: aws.String(media.MIME()),
	}); err != nil {
		s.deleteObject(ctx, originalKey)
		return Descriptor{}, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	return Descriptor{
		ID:    id,
		Path:  s.baseURL + originalKey,
		Thumb: s.baseURL + thumbKey,
	}, nil
}

// Remove deletes both artifacts of id. S3 treats deleting an absent key as
// success, which matches the idempotent removal contract.
func (s *S3Store) Remove(ctx context.Context, id string) error {
	if !ValidateID(id) {
		return ErrInvalidID
	}

	var errs []error
	for _, key := range []string{s.prefix + id, s.prefix + ThumbPrefix + id} {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); err != nil && !isNotFound(err) {
			errs = append(errs, fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err))
		}
	}

	return errors.Join(errs...)
}

// Exists reports whether both artifacts of id are present in the bucket.
func (s *S3Store) Exists(ctx context.Context, id string) bool {
	if !ValidateID(id) {
		return false
	}

	for _, key := range []string{s.prefix + id, s.prefix + ThumbPrefix + id} {
		if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); err != nil {
			return false
		}
	}

	return true
}

func (s *S3Store) deleteObject(ctx context.Context, key string) {
	_, _ = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
}

// readUpload buffers the upload into memory, verifying that the stream
// delivers exactly the declared number of bytes. Uploads are capped at
// MaxFileSize before this point, so buffering is bounded.
func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if int64(len(data)) != fh.Size {
		return nil, ErrShortUpload
	}

	return data, nil
}

// isNotFound classifies S3 API errors that mean the object does not exist.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
