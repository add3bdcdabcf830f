package filestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 stores files in an S3-compatible bucket.
type S3 struct {
	client *minio.Client
	bucket string
	host   string
}

var _ FileStore = (*S3)(nil)

type S3Params struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// Host is the public base URL files are served from.
	Host string
}

func NewS3(params S3Params) (*S3, error) {
	client, err := minio.New(params.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(params.AccessKey, params.SecretKey, ""),
		Secure: params.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	return &S3{
		client: client,
		bucket: params.Bucket,
		host:   strings.TrimRight(params.Host, "/"),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket: %w", err)
	}
	return nil
}

func (s *S3) WriteRecipeImage(ctx context.Context, imageID, suffix string, data []byte) (string, error) {
	key := recipeImagePath(imageID, suffix)
	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("putting object: %w", err)
	}
	return "/" + s.bucket + "/" + key, nil
}

func (s *S3) DeleteURLPath(ctx context.Context, urlpath string) error {
	key := strings.TrimPrefix(strings.Trim(urlpath, "/"), s.bucket+"/")
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing object: %w", err)
	}
	return nil
}

func (s *S3) FileURL(urlpath string) string {
	return s.host + "/" + strings.TrimLeft(urlpath, "/")
}
