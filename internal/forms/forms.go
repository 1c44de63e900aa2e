// Package forms is the boundary between form-integrated popups (select,
// combobox) and the forms layer. The popup reads the committed value and
// calls Commit; the forms layer owns dirty, touched and error state.
package forms

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrRequired is returned by Required for an empty value.
var ErrRequired = errors.New("value is required")

// Field is what a popup sees of its form field.
type Field interface {
	Value() any
	// Commit stores value and runs validation. A validation error does not
	// undo the commit.
	Commit(value any) error
}

// Validator checks a committed value.
type Validator func(value any) error

// Required rejects nil, empty strings and empty slices.
func Required(value any) error {
	if value == nil {
		return ErrRequired
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		if v.Len() == 0 {
			return ErrRequired
		}
	}
	return nil
}

// State is an in-memory Field tracking the usual field flags.
type State struct {
	name     string
	initial  any
	value    any
	validate Validator

	dirty   bool
	touched bool
	err     error
	commits int
}

// NewState creates a field holding initial. validate may be nil.
func NewState(name string, initial any, validate Validator) *State {
	return &State{name: name, initial: initial, value: initial, validate: validate}
}

// Name returns the field name.
func (s *State) Name() string { return s.name }

// Value implements Field.
func (s *State) Value() any { return s.value }

// Commit implements Field.
func (s *State) Commit(value any) error {
	s.value = value
	s.commits++
	s.dirty = !reflect.DeepEqual(value, s.initial)
	s.err = nil
	if s.validate != nil {
		if err := s.validate(value); err != nil {
			s.err = fmt.Errorf("forms: %s: %w", s.name, err)
		}
	}
	return s.err
}

// Touch marks the field as interacted with, e.g. when its popup closes.
func (s *State) Touch() { s.touched = true }

// Dirty reports whether the value differs from the initial one.
func (s *State) Dirty() bool { return s.dirty }

// Touched reports whether Touch was called.
func (s *State) Touched() bool { return s.touched }

// Err returns the last validation error.
func (s *State) Err() error { return s.err }

// Commits returns how many times Commit ran.
func (s *State) Commits() int { return s.commits }

// Reset restores the initial value and clears every flag.
func (s *State) Reset() {
	s.value = s.initial
	s.dirty, s.touched, s.err, s.commits = false, false, nil, 0
}
