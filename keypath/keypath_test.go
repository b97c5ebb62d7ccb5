package keypath_test

import (
	"errors"
	"testing"

	"github.com/tailored-agentic-units/docstate/keypath"
)

func TestKey_Validate(t *testing.T) {
	tests := []struct {
		name    string
		key     keypath.Key
		wantErr error
	}{
		{"single segment", keypath.New("counter"), nil},
		{"nested", keypath.New("user", "profile", "name"), nil},
		{"empty segment allowed", keypath.New(""), nil},
		{"nil key", nil, keypath.ErrEmptyKey},
		{"zero segments", keypath.New(), keypath.ErrEmptyKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestKey_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b keypath.Key
		want bool
	}{
		{"identical", keypath.New("a", "b"), keypath.New("a", "b"), true},
		{"different segment", keypath.New("a", "b"), keypath.New("a", "c"), false},
		{"prefix is not equal", keypath.New("a"), keypath.New("a", "b"), false},
		{"longer is not equal", keypath.New("a", "b", "c"), keypath.New("a", "b"), false},
		{"both empty", keypath.New(), keypath.New(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKey_Governs(t *testing.T) {
	tests := []struct {
		name string
		a, b keypath.Key
		want bool
	}{
		{"governs self", keypath.New("a", "b"), keypath.New("a", "b"), true},
		{"shorter prefix governs", keypath.New("a"), keypath.New("a", "b"), true},
		{"deep prefix governs", keypath.New("a", "b"), keypath.New("a", "b", "c"), true},
		{"sibling does not govern", keypath.New("a", "x"), keypath.New("a", "b"), false},
		{"longer does not govern shorter", keypath.New("a", "b"), keypath.New("a"), false},
		{"mismatched root", keypath.New("x"), keypath.New("a", "b"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Governs(tt.b); got != tt.want {
				t.Errorf("Governs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKey_Clone_Independent(t *testing.T) {
	orig := keypath.New("a", "b")
	clone := orig.Clone()
	clone[0] = "x"

	if orig[0] != "a" {
		t.Errorf("Clone() shares backing array, orig[0] = %q", orig[0])
	}
}

func TestKey_String(t *testing.T) {
	if got := keypath.New("user", "profile", "name").String(); got != "user/profile/name" {
		t.Errorf("String() = %q, want %q", got, "user/profile/name")
	}
}
