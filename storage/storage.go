// Package storage models the host's session-scoped key-value facility as an
// explicit interface. Each storage key maps to one opaque blob; the store
// keeps its entire persisted slot collection under a single key.
//
// Two backends ship with the package: an in-memory backend whose contents
// live for the process (the "session"), and a file backend that maps the
// session to a directory on disk.
package storage

import (
	"context"
	"errors"
)

// Sentinel errors for backend operations.
var (
	ErrReadFailed  = errors.New("storage read failed")
	ErrWriteFailed = errors.New("storage write failed")
)

// Storage reads and writes blobs by string key. Implementations are
// stateless beyond the stored blobs and must be safe for concurrent use.
type Storage interface {
	// Read returns the blob stored under key. The second return is false
	// when nothing has been stored under key.
	Read(ctx context.Context, key string) ([]byte, bool, error)
	// Write stores blob under key, replacing any previous blob.
	Write(ctx context.Context, key string, blob []byte) error
}
