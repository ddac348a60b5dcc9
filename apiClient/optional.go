package apiclient

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state field for partial updates. The zero value is
// absent and is dropped from the payload by the omitzero tag; Null sends an
// explicit JSON null to clear the field; Set sends a value.
type Optional[T any] struct {
	present bool
	null    bool
	value   T
}

func Set[T any](v T) Optional[T] {
	return Optional[T]{present: true, value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{present: true, null: true}
}

// IsZero reports whether the field is absent.
func (o Optional[T]) IsZero() bool {
	return !o.present
}

func (o Optional[T]) IsNull() bool {
	return o.present && o.null
}

// Get returns the value and true only when a non-null value is set.
func (o Optional[T]) Get() (T, bool) {
	if !o.present || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON is only called for keys present in the input, so any call
// marks the field present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}
