// Package oss stores blobs as objects in an Aliyun OSS bucket.
package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	aliyun "github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"

	"member-portal-api/config"
	"member-portal-api/internal/infrastructure/blobstore"
)

// bucket is the part of *aliyun.Bucket the store calls.
type bucket interface {
	PutObject(objectKey string, reader io.Reader, options ...aliyun.Option) error
	GetObject(objectKey string, options ...aliyun.Option) (io.ReadCloser, error)
	DeleteObject(objectKey string, options ...aliyun.Option) error
	IsObjectExist(objectKey string, options ...aliyun.Option) (bool, error)
}

type Store struct {
	logger *zap.Logger
	name   string
	prefix string
	bucket bucket
}

// New connects to the bucket and checks once that it exists.
func New(logger *zap.Logger, cfg config.OSS) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := aliyun.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create oss client: %w", err)
	}

	exists, err := client.IsBucketExist(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	b, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.Bucket, err)
	}

	logger.Info("oss bucket ready", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket))

	return newStore(logger, cfg.Bucket, cfg.Prefix, b), nil
}

func newStore(logger *zap.Logger, name, prefix string, b bucket) *Store {
	return &Store{logger: logger, name: name, prefix: prefix, bucket: b}
}

func (s *Store) objectKey(key string) (string, error) {
	if err := blobstore.ValidateKey(key); err != nil {
		return "", err
	}
	return s.prefix + key, nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	obj, err := s.objectKey(key)
	if err != nil {
		return err
	}

	opts := []aliyun.Option{aliyun.WithContext(ctx), aliyun.ForbidOverWrite(true)}
	if contentType != "" {
		opts = append(opts, aliyun.ContentType(contentType))
	}
	if size >= 0 {
		opts = append(opts, aliyun.ContentLength(size))
	}

	if err := s.bucket.PutObject(obj, r, opts...); err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", obj, s.name, err)
	}

	return nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}

	body, err := s.bucket.GetObject(obj, aliyun.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", blobstore.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to download %s from bucket %s: %w", obj, s.name, err)
	}

	return body, nil
}

// Delete succeeds for missing objects; OSS reports those as deleted too.
func (s *Store) Delete(ctx context.Context, key string) error {
	obj, err := s.objectKey(key)
	if err != nil {
		return err
	}

	if err := s.bucket.DeleteObject(obj, aliyun.WithContext(ctx)); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete %s from bucket %s: %w", obj, s.name, err)
	}

	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	obj, err := s.objectKey(key)
	if err != nil {
		return false, err
	}

	ok, err := s.bucket.IsObjectExist(obj, aliyun.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to stat %s in bucket %s: %w", obj, s.name, err)
	}

	return ok, nil
}

func isNotFound(err error) bool {
	var svcErr aliyun.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.StatusCode == http.StatusNotFound
	}
	return false
}
