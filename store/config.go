package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/tailored-agentic-units/docstate/storage"
)

const (
	defaultStorageKey = "docstate.slots"
	defaultTopic      = "docstate.change"
	defaultObserver   = "slog"
)

// BusConfig holds broadcast channel parameters.
type BusConfig struct {
	Topic string `json:"topic,omitempty"` // Change-event topic; defaults to "docstate.change".
}

// Config holds initialization parameters for a Store and its collaborators.
type Config struct {
	Storage    storage.Config `json:"storage"`
	Bus        BusConfig      `json:"bus"`
	StorageKey string         `json:"storage_key,omitempty"` // Blob key in storage; defaults to "docstate.slots".
	Observer   string         `json:"observer,omitempty"`    // Registered observer name; defaults to "slog".
}

// DefaultConfig returns a Config with sensible defaults for all sections.
func DefaultConfig() Config {
	return Config{
		Storage:    storage.DefaultConfig(),
		Bus:        BusConfig{Topic: defaultTopic},
		StorageKey: defaultStorageKey,
		Observer:   defaultObserver,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Storage.Merge(&source.Storage)

	if source.Bus.Topic != "" {
		c.Bus.Topic = source.Bus.Topic
	}
	if source.StorageKey != "" {
		c.StorageKey = source.StorageKey
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a config file, merges it with defaults, and returns the
// resulting Config. Files may use JSONC (comments, trailing commas); they
// are standardized to plain JSON before parsing.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(standardized, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
