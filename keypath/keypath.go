// Package keypath defines the hierarchical key type used to address state
// slots. A key is an ordered, non-empty sequence of string segments; keys
// form a hierarchy through the governing-prefix relation.
package keypath

import (
	"errors"
	"slices"
	"strings"
)

// ErrEmptyKey is returned when a key has no segments.
var ErrEmptyKey = errors.New("key has no segments")

// Key identifies a state slot as an ordered sequence of path segments,
// e.g. Key{"user", "profile", "name"}.
type Key []string

// New builds a Key from the given segments.
func New(segments ...string) Key {
	return Key(segments)
}

// Validate reports whether the key is usable. The only constraint is that
// a key must carry at least one segment.
func (k Key) Validate() error {
	if len(k) == 0 {
		return ErrEmptyKey
	}
	return nil
}

// Equal reports whether both keys have the same length and identical
// segments in order.
func (k Key) Equal(other Key) bool {
	return slices.Equal(k, other)
}

// Governs reports whether k is a governing prefix of other: every segment
// of k matches the corresponding leading segment of other. A key governs
// itself.
func (k Key) Governs(other Key) bool {
	if len(k) > len(other) {
		return false
	}
	return slices.Equal(k, other[:len(k)])
}

// Clone returns an independent copy of the key.
func (k Key) Clone() Key {
	return slices.Clone(k)
}

// String returns the slash-joined form of the key, e.g. "user/profile/name".
// Intended for logging and diagnostics; segments are not escaped.
func (k Key) String() string {
	return strings.Join(k, "/")
}
