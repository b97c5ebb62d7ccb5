package store

import "errors"

// Sentinel errors for store operations.
var (
	// ErrInvalidKey is returned by Create and Get when the supplied key has
	// no segments. No state is touched before key validation passes.
	ErrInvalidKey = errors.New("invalid key")

	// ErrPersistConfig is returned when a write-through is attempted for a
	// slot without a usable key. Slots always carry a validated key by
	// construction, so this path is defensive.
	ErrPersistConfig = errors.New("persistence requires a key")

	// ErrStorageCorrupt is returned when the stored blob fails to parse as
	// the expected array-of-pairs shape. The store never silently resets
	// corrupt storage; the parse failure is surfaced to the caller.
	ErrStorageCorrupt = errors.New("stored state is corrupt")

	// ErrNotSerializable is returned at persist time when a value cannot be
	// JSON-encoded (function values, channels, cyclic structures).
	ErrNotSerializable = errors.New("value is not serializable")
)
