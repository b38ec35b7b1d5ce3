package multierror

import (
	"fmt"
	"strings"
)

// Error is a generic error type that collects multiple errors per key. Keys are
// kept in the order they were first added, so the report is deterministic.
type Error[T comparable] struct {
	keys   []T
	errors map[T][]error
}

// New creates a new Error.
func New[T comparable]() *Error[T] {
	return &Error[T]{
		errors: make(map[T][]error),
	}
}

// Error returns a string representation of the error.
func (m *Error[T]) Error() string {
	var sb strings.Builder

	for _, k := range m.keys {
		for _, err := range m.errors[k] {
			fmt.Fprintf(&sb, "%v:%s; ", k, err)
		}
	}

	return strings.TrimRight(sb.String(), "; ")
}

// Unwrap returns a flat slice of all errors.
func (m *Error[T]) Unwrap() []error {
	errs := make([]error, 0, len(m.keys))
	for _, k := range m.keys {
		errs = append(errs, m.errors[k]...)
	}

	return errs
}

// Len returns the number of keys with at least one error.
func (m *Error[T]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Error[T]) Keys() []T {
	keys := make([]T, len(m.keys))
	copy(keys, m.keys)

	return keys
}

// Add appends an error to the key. Nil errors are ignored.
func (m *Error[T]) Add(key T, err error) {
	if err == nil {
		return
	}

	if _, ok := m.errors[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.errors[key] = append(m.errors[key], err)
}

// Get returns the errors added for the key.
func (m *Error[T]) Get(key T) ([]error, bool) {
	errs, ok := m.errors[key]
	return errs, ok
}

// Ret returns the Error if it contains any errors, nil otherwise.
func (m *Error[T]) Ret() error {
	if len(m.keys) == 0 {
		return nil
	}

	return m
}
