// Package storage keeps uploaded citizen documents in an object store. Every
// adapter is bound to a single bucket chosen at construction.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrMissingSigner is returned by PresignGet when the backend has no signing credentials.
	ErrMissingSigner = errors.New("storage: signed url signer not configured")
	// ErrObjectNotFound is returned when the key does not exist in the bucket.
	ErrObjectNotFound = errors.New("storage: object not found")
)

// Storage is the subset of object storage the portal needs.
type Storage interface {
	io.Closer

	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time limited download URL.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
	UpdatedAt   time.Time
}
