// Package anchor defines the positioning collaborator a popup asks where
// its surface goes. The popup only reads back the resolved side.
package anchor

import (
	"errors"
	"fmt"

	"github.com/wilbur182/disclosure/internal/mouse"
)

// ErrDetached is returned when the reference has no geometry, e.g. its
// element was removed.
var ErrDetached = errors.New("anchor: reference is detached")

// Side is the side of the reference the surface is placed on.
type Side int

const (
	SideBottom Side = iota
	SideTop
	SideRight
	SideLeft
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideLeft:
		return "left"
	}
	return "bottom"
}

// Opposite returns the side across the reference.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideRight:
		return SideLeft
	case SideLeft:
		return SideRight
	}
	return SideTop
}

// ParseSide parses a side name. Unknown names are an error.
func ParseSide(name string) (Side, error) {
	for _, s := range []Side{SideBottom, SideTop, SideRight, SideLeft} {
		if s.String() == name {
			return s, nil
		}
	}
	return SideBottom, fmt.Errorf("anchor: unknown side %q", name)
}

// Align is the surface's alignment along the reference edge.
type Align int

const (
	AlignCenter Align = iota
	AlignStart
	AlignEnd
)

func (a Align) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignEnd:
		return "end"
	}
	return "center"
}

// Options is the requested placement.
type Options struct {
	Side   Side
	Align  Align
	Offset int // gap in cells between reference and surface
}

// Placement is a resolved position.
type Placement struct {
	Rect  mouse.Rect
	Side  Side
	Align Align
}

// Positioner computes where a floating surface goes relative to a
// reference within bounds. Only Placement.Side is fed back into popup
// state.
type Positioner interface {
	Position(ref, floating, bounds mouse.Rect, opts Options) (Placement, error)
}

// PointRect is the reference rect for a context menu opened at p.
func PointRect(p mouse.Point) mouse.Rect {
	return mouse.Rect{X: p.X, Y: p.Y, W: 1, H: 1}
}
