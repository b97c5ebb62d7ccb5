package storage

import (
	"context"
	"slices"
	"sync"
)

type memoryStorage struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryStorage creates a Storage whose contents live for the process.
// This is the closest analogue of the host's tab-scoped storage: everything
// is lost when the owning process exits.
func NewMemoryStorage() Storage {
	return &memoryStorage{
		blobs: make(map[string][]byte),
	}
}

func (s *memoryStorage) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(blob), true, nil
}

func (s *memoryStorage) Write(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = slices.Clone(blob)
	return nil
}
