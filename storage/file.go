package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

type fileStorage struct {
	root string
	mu   sync.Mutex
}

// NewFileStorage creates a Storage that maps the session to a directory.
// Each storage key becomes one file under root, so blobs survive process
// restarts until the host clears the directory.
func NewFileStorage(root string) Storage {
	return &fileStorage{root: root}
}

func (s *fileStorage) Read(_ context.Context, key string) ([]byte, bool, error) {
	blob, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %s: %v", ErrReadFailed, key, err)
	}
	return blob, true, nil
}

func (s *fileStorage) Write(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(blob)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}
	return nil
}

// path maps a storage key to a file under root. Separators are flattened so
// a key can never escape the session directory.
func (s *fileStorage) path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	return filepath.Join(s.root, name)
}
