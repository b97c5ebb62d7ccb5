package store

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/docstate/keypath"
	"github.com/tailored-agentic-units/docstate/observability"
)

// Updater computes a slot's next value from its current one. current is nil
// when the slot has no recorded value yet. Updaters must be pure: they run
// inside the slot's write path and must not call back into the store.
type Updater func(current any) any

// Slot is the accessor/mutator handle for one state slot. A slot's registry
// position is fixed the first time it is resolved, so concurrently created
// slots never alias each other's storage as the registry grows.
type Slot struct {
	store      *Store
	key        keypath.Key
	index      int // registry position, -1 until first resolved
	persistent bool
}

// Key returns the key the slot was created with.
func (s *Slot) Key() keypath.Key {
	return s.key.Clone()
}

// Get returns the slot's current in-memory value. No side effects.
func (s *Slot) Get() any {
	s.store.registryMu.RLock()
	defer s.store.registryMu.RUnlock()

	if s.index >= 0 {
		return s.store.registry[s.index].value
	}
	for i := range s.store.registry {
		if s.store.registry[i].key.Equal(s.key) {
			return s.store.registry[i].value
		}
	}
	return nil
}

// Set computes the next value via updater and applies it: registry write,
// write-through persistence when the slot was created with persist, then one
// change notification on the bus. The notification always fires, persistent
// or not, and is dispatched after both writes have been applied. Listener
// callbacks run synchronously before Set returns; a callback may itself call
// Set on any slot.
func (s *Slot) Set(ctx context.Context, updater Updater) error {
	st := s.store

	st.registryMu.Lock()
	idx := st.resolveLocked(s)
	next := updater(st.registry[idx].value)
	st.registry[idx].value = next
	st.registryMu.Unlock()

	if s.persistent {
		if len(s.key) == 0 {
			return ErrPersistConfig
		}
		if err := st.persistSlot(ctx, s.key, next); err != nil {
			st.observer.OnEvent(ctx, observability.Event{
				Type:      EventError,
				Level:     observability.LevelError,
				Timestamp: time.Now(),
				Source:    "store.Slot.Set",
				Data: map[string]any{
					"key":   s.key.String(),
					"error": err.Error(),
				},
			})
			return err
		}

		st.observer.OnEvent(ctx, observability.Event{
			Type:      EventPersist,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "store.Slot.Set",
			Data:      map[string]any{"key": s.key.String()},
		})
	}

	st.observer.OnEvent(ctx, observability.Event{
		Type:      EventSlotSet,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "store.Slot.Set",
		Data: map[string]any{
			"key":       s.key.String(),
			"persisted": s.persistent,
		},
	})

	st.bus.Publish(ctx, st.topic, ChangeEvent{
		Key:    s.key.Clone(),
		Value:  next,
		Origin: st.id,
	})

	return nil
}
