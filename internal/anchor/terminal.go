package anchor

import "github.com/wilbur182/disclosure/internal/mouse"

// Terminal places surfaces on a cell grid. It flips to the opposite side
// when the preferred side overflows and shifts along the cross axis to stay
// inside bounds.
type Terminal struct{}

// Position implements Positioner.
func (Terminal) Position(ref, floating, bounds mouse.Rect, opts Options) (Placement, error) {
	if ref.Empty() {
		return Placement{}, ErrDetached
	}

	side := opts.Side
	rect := place(ref, floating, opts.Side, opts.Align, opts.Offset)
	if overflow(rect, bounds, side) > 0 {
		flipped := place(ref, floating, side.Opposite(), opts.Align, opts.Offset)
		if overflow(flipped, bounds, side.Opposite()) < overflow(rect, bounds, side) {
			side, rect = side.Opposite(), flipped
		}
	}
	rect = shift(rect, bounds, side)
	return Placement{Rect: rect, Side: side, Align: opts.Align}, nil
}

func place(ref, fl mouse.Rect, side Side, align Align, offset int) mouse.Rect {
	r := mouse.Rect{W: fl.W, H: fl.H}
	switch side {
	case SideBottom:
		r.Y = ref.Y + ref.H + offset
	case SideTop:
		r.Y = ref.Y - fl.H - offset
	case SideRight:
		r.X = ref.X + ref.W + offset
	case SideLeft:
		r.X = ref.X - fl.W - offset
	}

	if side == SideBottom || side == SideTop {
		r.X = alignOn(ref.X, ref.W, fl.W, align)
	} else {
		r.Y = alignOn(ref.Y, ref.H, fl.H, align)
	}
	return r
}

func alignOn(start, refLen, flLen int, align Align) int {
	switch align {
	case AlignStart:
		return start
	case AlignEnd:
		return start + refLen - flLen
	}
	return start + (refLen-flLen)/2
}

// overflow returns how many cells r sticks out of bounds along side's axis.
func overflow(r, bounds mouse.Rect, side Side) int {
	switch side {
	case SideBottom:
		return max(0, r.Y+r.H-(bounds.Y+bounds.H))
	case SideTop:
		return max(0, bounds.Y-r.Y)
	case SideRight:
		return max(0, r.X+r.W-(bounds.X+bounds.W))
	}
	return max(0, bounds.X-r.X)
}

// shift moves r along the cross axis back inside bounds.
func shift(r, bounds mouse.Rect, side Side) mouse.Rect {
	if side == SideBottom || side == SideTop {
		r.X = clampStart(r.X, r.W, bounds.X, bounds.W)
	} else {
		r.Y = clampStart(r.Y, r.H, bounds.Y, bounds.H)
	}
	return r
}

func clampStart(pos, length, lo, span int) int {
	if pos+length > lo+span {
		pos = lo + span - length
	}
	if pos < lo {
		pos = lo
	}
	return pos
}
