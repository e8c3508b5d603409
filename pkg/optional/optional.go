package optional

import (
	"bytes"
	"encoding/json"
)

var nullLiteral = []byte("null")

// Field wraps a JSON value and records whether the key was present in the
// payload at all. This is what lets a PATCH body distinguish "set description
// to null" from "leave description alone".
type Field[T any] struct {
	value T
	valid bool
	set   bool
}

// Some returns a Field carrying a value.
func Some[T any](v T) Field[T] {
	return Field[T]{value: v, valid: true, set: true}
}

// Null returns a Field that was explicitly supplied as JSON null.
func Null[T any]() Field[T] {
	return Field[T]{set: true}
}

// IsSet reports whether the key appeared in the payload, null included.
func (f Field[T]) IsSet() bool {
	return f.set
}

// IsNull reports whether the key was supplied as an explicit null.
func (f Field[T]) IsNull() bool {
	return f.set && !f.valid
}

// Value returns the wrapped value and whether it is present and non-null.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.valid
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true

	if bytes.Equal(data, nullLiteral) {
		return nil
	}

	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}

	f.valid = true

	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return nullLiteral, nil
	}

	return json.Marshal(f.value)
}
