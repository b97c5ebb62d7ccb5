package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/docstate/store"
)

func TestDefaultConfig(t *testing.T) {
	cfg := store.DefaultConfig()

	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Bus.Topic != "docstate.change" {
		t.Errorf("Bus.Topic = %q, want docstate.change", cfg.Bus.Topic)
	}
	if cfg.StorageKey != "docstate.slots" {
		t.Errorf("StorageKey = %q, want docstate.slots", cfg.StorageKey)
	}
	if cfg.Observer != "slog" {
		t.Errorf("Observer = %q, want slog", cfg.Observer)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.Merge(&store.Config{
		StorageKey: "custom.slots",
		Observer:   "noop",
	})

	if cfg.StorageKey != "custom.slots" {
		t.Errorf("StorageKey = %q, want custom.slots", cfg.StorageKey)
	}
	if cfg.Observer != "noop" {
		t.Errorf("Observer = %q, want noop", cfg.Observer)
	}
	// Untouched sections keep their defaults.
	if cfg.Bus.Topic != "docstate.change" {
		t.Errorf("Bus.Topic = %q, want docstate.change", cfg.Bus.Topic)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docstate.json")
	content := `{
		// session directory for this document
		"storage": {"backend": "file", "path": "/tmp/session"},
		"bus": {"topic": "app.change"},
		"observer": "noop", // trailing comma below is fine too
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := store.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Storage.Backend != "file" || cfg.Storage.Path != "/tmp/session" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Bus.Topic != "app.change" {
		t.Errorf("Bus.Topic = %q, want app.change", cfg.Bus.Topic)
	}
	if cfg.Observer != "noop" {
		t.Errorf("Observer = %q, want noop", cfg.Observer)
	}
	// Unspecified fields fall back to defaults.
	if cfg.StorageKey != "docstate.slots" {
		t.Errorf("StorageKey = %q, want default", cfg.StorageKey)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := store.LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadConfig() on missing file succeeded")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"storage": [}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.LoadConfig(path); err == nil {
		t.Error("LoadConfig() on invalid JSON succeeded")
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.Storage.Backend = "nonexistent"

	if _, err := store.New(&cfg); err == nil {
		t.Error("New() with unknown backend succeeded")
	}
}

func TestNew_UnknownObserver(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.Observer = "nonexistent"

	if _, err := store.New(&cfg); err == nil {
		t.Error("New() with unknown observer succeeded")
	}
}
