// Package store implements a hierarchical, observable state store scoped to
// one logical document. Code declares named slots keyed by segment paths,
// reads and mutates them through slot handles, optionally persists them to a
// session-scoped storage backend, and listens for changes broadcast on a
// shared in-process topic.
//
// The store is an explicit per-document context object constructed via New;
// consumers receive it by injection rather than through ambient globals.
//
//	st, err := store.New(&cfg)
//	counter, err := st.Create(ctx, 0, keypath.New("counter"), true)
//	err = counter.Set(ctx, func(v any) any { return v.(float64) + 1 })
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/docstate/bus"
	"github.com/tailored-agentic-units/docstate/keypath"
	"github.com/tailored-agentic-units/docstate/observability"
	"github.com/tailored-agentic-units/docstate/storage"
)

// ChangeEvent is the payload broadcast on the change topic after every slot
// write. Origin carries the publishing store's id so one of several senders
// sharing the topic can be told apart. Foreign payload types on the same
// topic are tolerated and ignored by listeners.
type ChangeEvent struct {
	Key    keypath.Key `json:"key"`
	Value  any         `json:"value"`
	Origin string      `json:"origin,omitempty"`
}

// Callback receives the new value of a changed slot.
type Callback func(value any)

// entry is one in-memory registry slot. The registry is append-only except
// for in-place value replacement, so entry indexes are stable.
type entry struct {
	key   keypath.Key
	value any
}

// Option overrides a config-created collaborator after initialization.
type Option func(*Store)

// WithStorage overrides the config-created storage backend.
func WithStorage(s storage.Storage) Option {
	return func(st *Store) { st.storage = s }
}

// WithBus overrides the default in-process bus. Stores sharing one bus and
// topic observe each other's changes.
func WithBus(b bus.Bus) Option {
	return func(st *Store) { st.bus = b }
}

// WithObserver overrides the config-selected observer.
func WithObserver(o observability.Observer) Option {
	return func(st *Store) { st.observer = o }
}

// Store is the per-document state context: slot registry, persistence
// bridge, and notification fan-out. Safe for concurrent use; listener
// callbacks run without store locks held, so reentrant writes from a
// callback are legal and run to completion in call order.
type Store struct {
	id string

	registry   []entry
	registryMu sync.RWMutex

	storage    storage.Storage
	storageKey string
	persistMu  sync.Mutex

	bus   bus.Bus
	topic string

	observer observability.Observer
}

// New creates a Store from configuration. Collaborators (storage backend,
// bus, observer) are initialized from their config sections; functional
// options applied afterwards can override any of them.
func New(cfg *Config, opts ...Option) (*Store, error) {
	stor, err := storage.New(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	storageKey := cfg.StorageKey
	if storageKey == "" {
		storageKey = defaultStorageKey
	}
	topic := cfg.Bus.Topic
	if topic == "" {
		topic = defaultTopic
	}

	st := &Store{
		id:         uuid.Must(uuid.NewV7()).String(),
		storage:    stor,
		storageKey: storageKey,
		bus:        bus.New(slog.Default()),
		topic:      topic,
		observer:   observer,
	}

	for _, opt := range opts {
		opt(st)
	}

	return st, nil
}

// ID returns the store's unique identifier, used as the Origin of every
// change event it publishes.
func (st *Store) ID() string {
	return st.id
}

// Create registers a state slot identified by key, seeded with defaultValue,
// and returns its handle. When persist is true every write, including the
// seeding write performed here, is written through to session storage.
// Seeding runs the full Set path, so creation emits one change notification
// carrying defaultValue.
//
// An empty key fails with ErrInvalidKey before any state is touched. If a
// slot with the same key already exists the handle binds to the existing
// registry entry and the seeding write replaces its value.
func (st *Store) Create(ctx context.Context, defaultValue any, key keypath.Key, persist bool) (*Slot, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	slot := &Slot{
		store:      st,
		key:        key.Clone(),
		index:      -1,
		persistent: persist,
	}

	if err := slot.Set(ctx, func(any) any { return defaultValue }); err != nil {
		return nil, err
	}

	st.observer.OnEvent(ctx, observability.Event{
		Type:      EventSlotCreate,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "store.Create",
		Data: map[string]any{
			"key":     key.String(),
			"persist": persist,
		},
	})

	return slot, nil
}

// Get returns the values of every previously persisted slot whose key is
// governed by (starts with or equals) the supplied key, in persisted order.
// Empty storage or no match yields an empty slice. A blob that fails to
// parse surfaces ErrStorageCorrupt; the store never resets storage on its
// own. Note the asymmetry with Listen, which matches exact keys only.
func (st *Store) Get(ctx context.Context, key keypath.Key) ([]any, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return st.queryPersisted(ctx, key)
}

// Listen registers callback to run synchronously whenever a change event on
// the store's topic carries a key exactly equal to key. Prefix-shaped keys
// do not match deeper keys here; that is deliberate and differs from Get.
// Registrations are never deduplicated and last for the store's lifetime.
func (st *Store) Listen(key keypath.Key, callback Callback) {
	if callback == nil {
		return
	}
	watched := key.Clone()

	st.bus.Subscribe(st.topic, func(_ context.Context, payload any) {
		change, ok := payload.(ChangeEvent)
		if !ok {
			return
		}
		if change.Key.Equal(watched) {
			callback(change.Value)
		}
	})

	st.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventListen,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "store.Listen",
		Data:      map[string]any{"key": watched.String()},
	})
}

// resolveLocked returns the slot's registry index, fixing it on first use:
// an existing entry with the same key is adopted, otherwise a new entry is
// appended. Callers must hold registryMu.
func (st *Store) resolveLocked(s *Slot) int {
	if s.index >= 0 {
		return s.index
	}
	for i := range st.registry {
		if st.registry[i].key.Equal(s.key) {
			s.index = i
			return i
		}
	}
	st.registry = append(st.registry, entry{key: s.key.Clone()})
	s.index = len(st.registry) - 1
	return s.index
}
