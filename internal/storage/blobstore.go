// Package storage persists generated artwork and hands out time-limited
// retrieval URLs that the fulfillment platform fetches server-side.
package storage

import (
	"context"
	"time"
)

// BlobStore writes objects and produces signed, expiring GET URLs for them.
type BlobStore interface {
	// Put writes the object under key with the given content type.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// SignedURL returns a retrieval URL valid for ttl. The URL must stay
	// valid long enough for the fulfillment platform's server-side fetch;
	// a ttl of zero produces an already-expired URL.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Bucket identifies the backing bucket (or local root) for reporting.
	Bucket() string
}
