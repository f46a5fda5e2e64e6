package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store archives result documents in a MinIO (S3 compatible) bucket.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New buat koneksi MinIO dan pastikan bucket ada
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// PutJSON uploads data under key and returns the object URL.
func (s *Store) PutJSON(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return s.ObjectURL(key), nil
}

// ObjectURL is the path-style URL of key. It is only fetchable when the
// bucket is public; private buckets need a presigned URL.
func (s *Store) ObjectURL(key string) string {
	u := s.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", u.Scheme, u.Host, s.bucketName, key)
}

// Ping checks that the bucket is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s missing", s.bucketName)
	}
	return nil
}
