package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tailored-agentic-units/docstate/keypath"
)

// persistedSlot is one entry of the durable slot collection. On the wire it
// is a 2-element JSON array: [["user","profile"], value]. Values stay raw so
// a read-merge-write cycle never re-encodes entries it did not touch.
type persistedSlot struct {
	Key   keypath.Key
	Value json.RawMessage
}

func (p persistedSlot) MarshalJSON() ([]byte, error) {
	key, err := json.Marshal(p.Key)
	if err != nil {
		return nil, err
	}
	return json.Marshal([]json.RawMessage{key, p.Value})
}

func (p *persistedSlot) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("slot pair has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Key); err != nil {
		return fmt.Errorf("slot key: %w", err)
	}
	p.Value = pair[1]
	return nil
}

// loadPersisted reads and decodes the full persisted collection. An absent
// or empty blob yields an empty collection; a blob that fails to decode
// surfaces ErrStorageCorrupt rather than being coerced to empty.
func (s *Store) loadPersisted(ctx context.Context) ([]persistedSlot, error) {
	blob, ok, err := s.storage.Read(ctx, s.storageKey)
	if err != nil {
		return nil, err
	}
	if !ok || len(blob) == 0 {
		return nil, nil
	}

	var slots []persistedSlot
	if err := json.Unmarshal(blob, &slots); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	}
	return slots, nil
}

// persistSlot merges one (key, value) into the durable collection: an exact
// key match is replaced in place, anything else is appended. The whole
// collection is written back as a single blob under the fixed storage key.
func (s *Store) persistSlot(ctx context.Context, key keypath.Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: key %s: %v", ErrNotSerializable, key, err)
	}

	// Serializes concurrent read-merge-write cycles against this store.
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	slots, err := s.loadPersisted(ctx)
	if err != nil {
		return err
	}

	merged := false
	for i := range slots {
		if slots[i].Key.Equal(key) {
			slots[i].Value = raw
			merged = true
			break
		}
	}
	if !merged {
		slots = append(slots, persistedSlot{Key: key.Clone(), Value: raw})
	}

	blob, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotSerializable, err)
	}
	return s.storage.Write(ctx, s.storageKey, blob)
}

// queryPersisted returns the decoded values of every persisted slot whose
// key is governed by key, in persisted order.
func (s *Store) queryPersisted(ctx context.Context, key keypath.Key) ([]any, error) {
	slots, err := s.loadPersisted(ctx)
	if err != nil {
		return nil, err
	}

	values := make([]any, 0, len(slots))
	for _, slot := range slots {
		if !key.Governs(slot.Key) {
			continue
		}
		var value any
		if err := json.Unmarshal(slot.Value, &value); err != nil {
			return nil, fmt.Errorf("%w: key %s: %v", ErrStorageCorrupt, slot.Key, err)
		}
		values = append(values, value)
	}
	return values, nil
}
