package anchor

import (
	"errors"
	"testing"

	"github.com/wilbur182/disclosure/internal/mouse"
)

func TestTerminalPosition(t *testing.T) {
	bounds := mouse.Rect{X: 0, Y: 0, W: 80, H: 24}
	tests := []struct {
		name     string
		ref      mouse.Rect
		floating mouse.Rect
		opts     Options
		want     Placement
	}{
		{
			name:     "bottom start fits",
			ref:      mouse.Rect{X: 10, Y: 2, W: 8, H: 1},
			floating: mouse.Rect{W: 20, H: 5},
			opts:     Options{Side: SideBottom, Align: AlignStart},
			want:     Placement{Rect: mouse.Rect{X: 10, Y: 3, W: 20, H: 5}, Side: SideBottom, Align: AlignStart},
		},
		{
			name:     "bottom flips to top near the edge",
			ref:      mouse.Rect{X: 10, Y: 21, W: 8, H: 1},
			floating: mouse.Rect{W: 20, H: 5},
			opts:     Options{Side: SideBottom, Align: AlignStart, Offset: 1},
			want:     Placement{Rect: mouse.Rect{X: 10, Y: 15, W: 20, H: 5}, Side: SideTop, Align: AlignStart},
		},
		{
			name:     "center shifted inside right edge",
			ref:      mouse.Rect{X: 76, Y: 2, W: 4, H: 1},
			floating: mouse.Rect{W: 20, H: 3},
			opts:     Options{Side: SideBottom},
			want:     Placement{Rect: mouse.Rect{X: 60, Y: 3, W: 20, H: 3}, Side: SideBottom},
		},
		{
			name:     "right side aligned end",
			ref:      mouse.Rect{X: 10, Y: 10, W: 10, H: 4},
			floating: mouse.Rect{W: 12, H: 2},
			opts:     Options{Side: SideRight, Align: AlignEnd},
			want:     Placement{Rect: mouse.Rect{X: 20, Y: 12, W: 12, H: 2}, Side: SideRight, Align: AlignEnd},
		},
		{
			name:     "no room either side keeps the less bad one",
			ref:      mouse.Rect{X: 0, Y: 11, W: 4, H: 1},
			floating: mouse.Rect{W: 10, H: 20},
			opts:     Options{Side: SideBottom, Align: AlignStart},
			want:     Placement{Rect: mouse.Rect{X: 0, Y: 12, W: 10, H: 20}, Side: SideBottom, Align: AlignStart},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Terminal{}.Position(tt.ref, tt.floating, bounds, tt.opts)
			if err != nil {
				t.Fatalf("Position() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Position() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTerminalDetachedReference(t *testing.T) {
	_, err := Terminal{}.Position(mouse.Rect{}, mouse.Rect{W: 3, H: 3}, mouse.Rect{W: 80, H: 24}, Options{})
	if !errors.Is(err, ErrDetached) {
		t.Errorf("err = %v, want ErrDetached", err)
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range []Side{SideBottom, SideTop, SideRight, SideLeft} {
		got, err := ParseSide(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSide(%q) = %v, %v", s.String(), got, err)
		}
		if s.Opposite().Opposite() != s {
			t.Errorf("%v.Opposite().Opposite() = %v", s, s.Opposite().Opposite())
		}
	}
	if _, err := ParseSide("middle"); err == nil {
		t.Error("ParseSide(middle) error = nil")
	}
}
