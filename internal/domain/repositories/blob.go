package repositories

import (
	"context"
	"io"
)

// BlobStore is the object storage holding mockup images.
type BlobStore interface {
	// Put uploads content under key, replacing any existing object
	Put(ctx context.Context, key, contentType string, body io.Reader) error

	// Delete removes the objects; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error

	// Open streams an object's content. Caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// PublicURL returns the URL reviewers load the object from
	PublicURL(key string) string

	// KeyFromURL recovers the object key from a URL produced by PublicURL
	KeyFromURL(url string) (string, bool)
}
