// Package storage uploads tile files to an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the subset of the S3 client used for uploads.
type ObjectAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewClient builds an S3 client for cfg using static credentials and
// path-style addressing, which MinIO requires.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// Uploader writes tiles into one bucket under a key prefix.
type Uploader struct {
	client ObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
}

func NewUploader(client ObjectAPI, cfg Config, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Uploader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, logger: logger}
}

// Key is the object key a tile file is stored under.
func (u *Uploader) Key(file string) string {
	return path.Join(u.prefix, filepath.Base(file))
}

// EnsureBucket creates the bucket when HeadBucket reports it missing. Any
// other HeadBucket failure is returned.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("check bucket %s: %w", u.bucket, err)
	}
	if _, err := u.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(u.bucket)}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", u.bucket, err)
	}
	u.logger.Info("created bucket", "bucket", u.bucket)
	return nil
}

// UploadTiles ensures the bucket exists and uploads each file, returning the
// object keys in input order. It stops at the first failure.
func (u *Uploader) UploadTiles(ctx context.Context, files []string) ([]string, error) {
	if err := u.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(files))
	for _, f := range files {
		key, err := u.upload(ctx, f)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	u.logger.Info("uploaded tiles", "bucket", u.bucket, "count", len(keys))
	return keys, nil
}

func (u *Uploader) upload(ctx context.Context, file string) (string, error) {
	fh, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("could not open file %s: %w", file, err)
	}
	defer fh.Close()

	key := u.Key(file)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        fh,
		ContentType: aws.String(contentType(file)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filepath.Base(file), err)
	}
	u.logger.Debug("uploaded", "key", key)
	return key, nil
}

func contentType(file string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file), ".")); ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tif", "tiff":
		return "image/tiff"
	case "png", "gif", "bmp":
		return "image/" + ext
	default:
		return "application/octet-stream"
	}
}
