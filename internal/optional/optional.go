// Package optional distinguishes a field that was absent from a payload from one
// that was present with an empty value.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds a T that may be missing.
type Value[T any] struct {
	v  T
	ok bool
}

// Some returns a present value.
func Some[T any](v T) Value[T] { return Value[T]{v: v, ok: true} }

// None returns a missing value.
func None[T any]() Value[T] { return Value[T]{} }

// Get returns the value and whether it was present.
func (o Value[T]) Get() (T, bool) { return o.v, o.ok }

// Present reports whether the value was set.
func (o Value[T]) Present() bool { return o.ok }

// Or returns the value when present, def otherwise.
func (o Value[T]) Or(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// UnmarshalJSON marks the value present unless the JSON literal is null.
// Keys missing from the object never reach here and stay None.
func (o *Value[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = Value[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Value[T]{v: v, ok: true}
	return nil
}

// MarshalJSON writes null for a missing value.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}
