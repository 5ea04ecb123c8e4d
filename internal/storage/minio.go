package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// UploadResult identifies an uploaded object: the public URL served to
// clients and the storage id needed to delete it later.
type UploadResult struct {
	URL       string
	StorageID string
}

// ObjectStore is the narrow interface the attachment manager consumes.
type ObjectStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType, key string) (*UploadResult, error)
	Delete(ctx context.Context, storageID, resourceKind string) error
}

// MinioStore implements ObjectStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinioStore{
		client:   client,
		bucket:   bucket,
		endpoint: endpoint,
		useSSL:   useSSL,
	}, nil
}

// Upload stores an object and returns its public URL plus the key used
// as storage id.
func (m *MinioStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, key string) (*UploadResult, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	scheme := "http"
	if m.useSSL {
		scheme = "https"
	}

	return &UploadResult{
		URL:       fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, m.bucket, key),
		StorageID: key,
	}, nil
}

// Delete removes an object. resourceKind is accepted for interface
// parity with providers that shard by resource type; MinIO keys are
// flat, so it is unused here.
func (m *MinioStore) Delete(ctx context.Context, storageID, resourceKind string) error {
	_ = resourceKind
	if err := m.client.RemoveObject(ctx, m.bucket, storageID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
