// Package storage defines the interface for object storage operations.
// The MinIO implementation works with any S3-compatible provider (AWS S3, MinIO).
package storage

import (
	"context"
	"io"
	"time"
)

// MaxPageSize is the largest page an S3-compatible store returns per listing call.
const MaxPageSize = 1000

// Object describes one stored object as reported by a listing.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListOptions selects one page of a listing.
type ListOptions struct {
	Prefix string
	// Cursor is the continuation token returned by the previous page; empty for the first page.
	Cursor string
	// Delimiter groups keys into Page.Prefixes when set (usually "/").
	Delimiter string
	// MaxKeys bounds the page size; zero or anything above MaxPageSize means MaxPageSize.
	MaxKeys int
}

// Page is one bounded slice of a listing.
type Page struct {
	Objects  []Object
	Prefixes []string
	// NextCursor is empty once the listing is exhausted.
	NextCursor string
}

// Storage is the interface for uploading, listing and removing objects.
type Storage interface {
	// List returns one page of objects under opts.Prefix.
	List(ctx context.Context, opts ListOptions) (Page, error)
	// Upload streams data to the store under the given key, replacing any existing object.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// DeleteBatch removes all keys in as few store calls as possible.
	DeleteBatch(ctx context.Context, keys []string) error
	// PresignGet returns a credential-free read URL valid for ttl.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
