package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
// Pointing STORAGE_ENDPOINT at s3.amazonaws.com talks to AWS S3 directly.
type MinioStorage struct {
	client *minio.Client
	core   minio.Core
	bucket string
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists and returns a
// ready-to-use MinioStorage. The bucket stays private: reads go through presigned URLs.
func NewMinioStorage(ctx context.Context, endpoint, region, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Info().Str("bucket", bucket).Msg("storage: created bucket")
	}

	return &MinioStorage{
		client: client,
		core:   minio.Core{Client: client},
		bucket: bucket,
	}, nil
}

// List fetches a single ListObjectsV2 page. The channel-based minio.Client.ListObjects
// hides the continuation token, so the lower-level Core call is used instead.
func (s *MinioStorage) List(ctx context.Context, opts ListOptions) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	result, err := s.core.ListObjectsV2(s.bucket, opts.Prefix, "", opts.Cursor, opts.Delimiter, pageSize(opts.MaxKeys))
	if err != nil {
		return Page{}, fmt.Errorf("list objects %q: %w", opts.Prefix, err)
	}
	return pageFromResult(result), nil
}

// Upload streams reader to the bucket under key. size must be the exact byte count
// (pass -1 only if the size is genuinely unknown; MinIO will buffer it).
func (s *MinioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Delete removes the object at key from the bucket.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// DeleteBatch removes keys with multi-object delete requests; minio-go splits
// the channel into requests of at most 1000 keys.
func (s *MinioStorage) DeleteBatch(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var errs []error
	for rErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("remove object %q: %w", rErr.ObjectName, rErr.Err))
	}
	return errors.Join(errs...)
}

// PresignGet returns a presigned GET URL for key.
func (s *MinioStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", key, err)
	}
	return u.String(), nil
}

func pageSize(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func pageFromResult(result minio.ListBucketV2Result) Page {
	page := Page{
		Objects: make([]Object, 0, len(result.Contents)),
	}
	for _, obj := range result.Contents {
		if obj.Key == "" {
			continue
		}
		page.Objects = append(page.Objects, Object{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	for _, p := range result.CommonPrefixes {
		page.Prefixes = append(page.Prefixes, p.Prefix)
	}
	if result.IsTruncated {
		page.NextCursor = result.NextContinuationToken
	}
	return page
}
