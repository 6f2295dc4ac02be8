// Package storage backs post media with an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"Loom/internal/core/posts"
)

// BlobStore implements posts.BlobStore over a MinIO/S3 bucket. Download
// URLs are presigned on every read with a fixed expiry.
type BlobStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// Options carries the connection settings for the object store.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// NewBlobStore connects to the object store and ensures the bucket exists.
func NewBlobStore(ctx context.Context, opts Options) (*BlobStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
		}
	}

	return &BlobStore{client: client, bucket: opts.Bucket, expiry: opts.URLExpiry}, nil
}

func (s *BlobStore) Put(ctx context.Context, key string, upload posts.Upload) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, upload.Content, upload.Size,
		minio.PutObjectOptions{ContentType: upload.ContentType})
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", key, err)
	}
	return nil
}

func (s *BlobStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

func (s *BlobStore) PresignedURL(ctx context.Context, key string) (string, time.Time, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, url.Values{})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign object %s: %w", key, err)
	}
	return u.String(), time.Now().Add(s.expiry), nil
}
