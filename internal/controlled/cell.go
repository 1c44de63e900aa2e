// Package controlled implements a value that is either owned by its
// component (uncontrolled) or supplied by the caller on every render
// (controlled), as used for a popup's open flag, a select's value and a
// list's active index.
package controlled

import (
	"log/slog"

	"github.com/wilbur182/disclosure/internal/diag"
)

// Reason names why a value changed.
type Reason string

// ReasonNone is used for programmatic changes with no interaction behind them.
const ReasonNone Reason = "none"

// Prop is an optional caller-supplied value. A set Prop makes the cell
// controlled.
type Prop[T any] struct {
	value T
	set   bool
}

// Some returns a set Prop holding v.
func Some[T any](v T) Prop[T] {
	return Prop[T]{value: v, set: true}
}

// Unset returns an empty Prop.
func Unset[T any]() Prop[T] {
	return Prop[T]{}
}

// IsSet reports whether the prop carries a value.
func (p Prop[T]) IsSet() bool {
	return p.set
}

// Value returns the prop's value (zero when unset).
func (p Prop[T]) Value() T {
	return p.value
}

// Details describes a change request. Change callbacks may veto it with
// Cancel.
type Details struct {
	Reason  Reason
	Event   any    // source event, if any
	Trigger string // trigger that caused the change, "" if none

	canceled bool
}

// NewDetails returns details for reason with no source event.
func NewDetails(reason Reason) *Details {
	return &Details{Reason: reason}
}

// Cancel vetoes the change.
func (d *Details) Cancel() {
	d.canceled = true
}

// IsCanceled reports whether a callback vetoed the change.
func (d *Details) IsCanceled() bool {
	return d.canceled
}

// ChangeFunc is called with the requested value before it is applied.
type ChangeFunc[T any] func(next T, d *Details)

// Cell holds one controlled-or-uncontrolled value.
type Cell[T any] struct {
	name       string
	controlled bool
	value      T
	onChange   ChangeFunc[T]
	logger     *slog.Logger
}

// Option configures a Cell.
type Option func(*cellOptions)

type cellOptions struct {
	name   string
	logger *slog.Logger
}

// WithName labels the cell in diagnostics.
func WithName(name string) Option {
	return func(o *cellOptions) { o.name = name }
}

// WithLogger sets the logger diagnostics are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(o *cellOptions) { o.logger = l }
}

// New creates a cell. When prop is set the cell is controlled and def is
// ignored; otherwise it starts at def and owns its storage.
func New[T any](prop Prop[T], def T, onChange ChangeFunc[T], opts ...Option) *Cell[T] {
	var o cellOptions
	for _, opt := range opts {
		opt(&o)
	}
	c := &Cell[T]{
		name:       o.name,
		controlled: prop.set,
		onChange:   onChange,
		logger:     o.logger,
	}
	if prop.set {
		c.value = prop.value
		if onChange == nil {
			diag.Report(c.logger, diag.ErrMissingOnChange, "cell", c.name)
		}
	} else {
		c.value = def
	}
	return c
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Controlled reports whether the caller owns the value.
func (c *Cell[T]) Controlled() bool {
	return c.controlled
}

// Set requests next. The change callback always runs first; a controlled
// cell never stores next (the caller feeds it back through Sync), an
// uncontrolled cell stores it unless the callback canceled. Set returns
// false when the change was vetoed.
func (c *Cell[T]) Set(next T, d *Details) bool {
	if d == nil {
		d = NewDetails(ReasonNone)
	}
	if c.onChange != nil {
		c.onChange(next, d)
	}
	if d.IsCanceled() {
		return false
	}
	if !c.controlled {
		c.value = next
	}
	return true
}

// Sync delivers the caller's prop for this render. A controlled cell adopts
// the value. Switching modes is a configuration error: it is reported and
// the cell keeps its original mode.
func (c *Cell[T]) Sync(prop Prop[T]) {
	if prop.set != c.controlled {
		diag.Report(c.logger, diag.ErrModeSwitch, "cell", c.name, "controlled", c.controlled)
		return
	}
	if c.controlled {
		c.value = prop.value
	}
}
