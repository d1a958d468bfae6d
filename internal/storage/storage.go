// Package storage moves logo files to and from an S3-compatible object
// store and mints public URLs for them. Swap implementations by changing
// the concrete type injected at startup — the MinIO implementation works
// with any S3-compatible provider (MinIO, AWS S3, Supabase Storage).
package storage

import (
	"context"
	"io"
)

// Storage is the interface for uploading and removing logo assets.
type Storage interface {
	// EnsureBucket makes sure the configured bucket exists with a
	// public-read policy, creating it on first use. It reports whether
	// this call created the bucket.
	EnsureBucket(ctx context.Context) (created bool, err error)

	// Upload stores the file under a generated collision-resistant key
	// inside subPath and returns its public URL. The original filename
	// contributes only its extension to the stored key.
	Upload(ctx context.Context, subPath, filename string, reader io.Reader, size int64, contentType string) (string, error)

	// DeleteByURL removes the object a previously minted public URL
	// points at. Callers treat failures as non-fatal cleanup misses.
	DeleteByURL(ctx context.Context, url string) error

	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}
