package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectAPI is the slice of the MinIO SDK this package uses. Tests
// substitute a fake to observe bucket and object calls.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucket, policy string) error
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

var _ objectAPI = (*minio.Client)(nil)

// MinioStorage implements Storage using a MinIO (or any S3-compatible)
// backend. The bucket is provisioned lazily on first upload rather than
// at startup, so the service comes up even when storage is unreachable.
type MinioStorage struct {
	api        objectAPI
	bucket     string
	publicBase string
	maxSize    int64

	// mu serializes bucket provisioning so two concurrent first uploads
	// issue at most one create-bucket call.
	mu      sync.Mutex
	ensured bool
}

// NewMinioStorage creates a MinIO client configured for the given bucket.
// maxSize caps single-object uploads in bytes; zero disables the cap.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool, maxSize int64) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioStorage{
		api:        client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		maxSize:    maxSize,
	}, nil
}

// EnsureBucket checks for the bucket and creates it with a public-read
// policy when absent. After the first successful call the result is
// cached; later calls make no remote round-trips at all.
func (s *MinioStorage) EnsureBucket(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensured {
		return false, nil
	}

	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return false, fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		s.ensured = true
		return false, nil
	}

	if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return false, fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	if err := s.api.SetBucketPolicy(ctx, s.bucket, publicReadPolicy(s.bucket)); err != nil {
		return false, fmt.Errorf("set bucket policy: %w", err)
	}

	log.Printf("storage: created bucket %q", s.bucket)
	s.ensured = true
	return true, nil
}

// Upload stores reader under a generated key inside subPath and returns
// the public URL. Keys combine a random token with a millisecond
// timestamp so concurrent admin sessions cannot collide. Overwrites are
// allowed: a regenerated key landing on an existing object replaces it.
func (s *MinioStorage) Upload(ctx context.Context, subPath, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", &UploadError{Key: filename, Err: fmt.Errorf("file size %d exceeds limit %d", size, s.maxSize)}
	}

	if _, err := s.EnsureBucket(ctx); err != nil {
		return "", &UploadError{Key: filename, Err: err}
	}

	key := objectKey(subPath, filename)
	_, err := s.api.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}

	return s.PublicURL(key), nil
}

// DeleteByURL parses the object key out of a public URL and removes the
// object.
func (s *MinioStorage) DeleteByURL(ctx context.Context, rawURL string) error {
	key, err := s.keyFromURL(rawURL)
	if err != nil {
		return &DeleteError{Key: rawURL, Err: err}
	}
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return &DeleteError{Key: key, Err: err}
	}
	return nil
}

// PublicURL returns the browser-accessible URL for the given key.
func (s *MinioStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// keyFromURL extracts the object key from a public URL by locating the
// bucket-name path segment and taking everything after it. URLs minted
// by other deployments (different path prefix, CDN rewrite) fall back to
// the last path segment.
func (s *MinioStorage) keyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[len(segments)-1] == "" {
		return "", fmt.Errorf("no object path in url %q", rawURL)
	}

	for i, seg := range segments {
		if seg == s.bucket && i < len(segments)-1 {
			return strings.Join(segments[i+1:], "/"), nil
		}
	}
	return segments[len(segments)-1], nil
}

// objectKey builds a collision-resistant key: random token, millisecond
// timestamp, and the original file extension, nested under subPath.
func objectKey(subPath, filename string) string {
	name := fmt.Sprintf("%s_%d%s", uuid.NewString(), time.Now().UnixMilli(), path.Ext(filename))
	if subPath == "" {
		return name
	}
	return path.Join(subPath, name)
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous
// GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
