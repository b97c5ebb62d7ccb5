package storage

import (
	"fmt"
	"sync"
)

// Config holds storage backend initialization parameters.
type Config struct {
	Backend string `json:"backend,omitempty"` // Registered backend name; defaults to "memory".
	Path    string `json:"path,omitempty"`    // Session directory for the "file" backend.
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig() Config {
	return Config{Backend: "memory"}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// Factory constructs a Storage from configuration.
type Factory func(cfg *Config) (Storage, error)

var (
	backends = map[string]Factory{
		"memory": func(*Config) (Storage, error) {
			return NewMemoryStorage(), nil
		},
		"file": func(cfg *Config) (Storage, error) {
			if cfg.Path == "" {
				return nil, fmt.Errorf("file backend requires a path")
			}
			return NewFileStorage(cfg.Path), nil
		},
	}
	mutex sync.RWMutex
)

// Register adds or replaces a named backend factory. Call before New for
// configs that reference the custom name.
func Register(name string, factory Factory) {
	mutex.Lock()
	defer mutex.Unlock()

	backends[name] = factory
}

// New creates a Storage from configuration by resolving the configured
// backend name against the registry.
func New(cfg *Config) (Storage, error) {
	name := cfg.Backend
	if name == "" {
		name = "memory"
	}

	mutex.RLock()
	factory, exists := backends[name]
	mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown storage backend: %s", name)
	}
	return factory(cfg)
}
