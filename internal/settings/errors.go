package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrNilStore is returned when the engine is constructed without a store.
	ErrNilStore = errors.New("override store is nil")

	// ErrNilRegistry is returned when the engine is constructed without both registries.
	ErrNilRegistry = errors.New("default registry is nil")

	// ErrUnknownScope is returned for a scope with no registered definitions.
	ErrUnknownScope = errors.New("unknown settings scope")

	// ErrDuplicateDefinition is returned when two definitions share (category, key).
	ErrDuplicateDefinition = errors.New("duplicate setting definition")

	// ErrDuplicateField is returned when two definitions share a form field name.
	ErrDuplicateField = errors.New("duplicate setting form field")
)

// DecodeError reports a stored or inbound value that can not be decoded per
// its declared type. It is recoverable on the read path: resolution falls back
// to the definition default for that single key.
type DecodeError struct {
	Type ValueType
	Raw  string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("can not decode %q as %s: %v", e.Raw, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
