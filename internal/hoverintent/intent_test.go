package hoverintent

import (
	"testing"
	"time"

	"github.com/wilbur182/disclosure/internal/config"
	"github.com/wilbur182/disclosure/internal/mouse"
	"github.com/wilbur182/disclosure/internal/timer"
)

type counts struct {
	opens, closes int
}

func newIntent(cfg Config) (*Intent, *timer.Manual, *counts) {
	sched := timer.NewManual()
	c := &counts{}
	h := New(sched, cfg, Callbacks{
		Open:  func() { c.opens++ },
		Close: func() { c.closes++ },
	})
	return h, sched, c
}

func TestEnterLeaveWithinDelayOpensNothing(t *testing.T) {
	h, sched, c := newIntent(Config{OpenDelay: 300 * time.Millisecond})

	h.PointerEnter(mouse.Point{X: 1, Y: 0})
	sched.Advance(299 * time.Millisecond)
	h.PointerLeave(mouse.Point{X: 1, Y: 5})
	sched.Advance(time.Second)

	if c.opens != 0 {
		t.Errorf("opens = %d, want 0", c.opens)
	}
	if h.Pending() != PendingNone {
		t.Errorf("pending = %v, want none", h.Pending())
	}
}

func TestHoldingOpensExactlyOnce(t *testing.T) {
	h, sched, c := newIntent(Config{OpenDelay: 300 * time.Millisecond})

	h.PointerEnter(mouse.Point{X: 1, Y: 0})
	sched.Advance(300 * time.Millisecond)
	if c.opens != 1 {
		t.Fatalf("opens after delay = %d, want 1", c.opens)
	}
	h.PointerMove(mouse.Point{X: 4, Y: 0})
	sched.Advance(time.Second)
	if c.opens != 1 {
		t.Errorf("opens after holding = %d, want 1", c.opens)
	}
}

func TestRestModeRestartsOnMovement(t *testing.T) {
	h, sched, c := newIntent(Config{OpenDelay: 300 * time.Millisecond, Mode: ModeRest, RestThreshold: 1})

	h.PointerEnter(mouse.Point{X: 0, Y: 0})
	for i := 1; i <= 5; i++ {
		sched.Advance(200 * time.Millisecond)
		h.PointerMove(mouse.Point{X: i * 2, Y: 0})
	}
	if c.opens != 0 {
		t.Fatalf("opens while moving = %d, want 0", c.opens)
	}
	sched.Advance(300 * time.Millisecond)
	if c.opens != 1 {
		t.Errorf("opens after resting = %d, want 1", c.opens)
	}
}

func TestRestModeIgnoresJitterWithinThreshold(t *testing.T) {
	h, sched, c := newIntent(Config{OpenDelay: 300 * time.Millisecond, Mode: ModeRest, RestThreshold: 1})

	h.PointerEnter(mouse.Point{X: 5, Y: 0})
	sched.Advance(200 * time.Millisecond)
	h.PointerMove(mouse.Point{X: 6, Y: 0})
	sched.Advance(100 * time.Millisecond)
	if c.opens != 1 {
		t.Errorf("opens = %d, want 1", c.opens)
	}
}

func TestDelayModeIgnoresMovement(t *testing.T) {
	h, sched, c := newIntent(Config{OpenDelay: 300 * time.Millisecond, Mode: ModeDelay})

	h.PointerEnter(mouse.Point{X: 0, Y: 0})
	for i := 1; i <= 3; i++ {
		sched.Advance(100 * time.Millisecond)
		h.PointerMove(mouse.Point{X: i * 3, Y: 0})
	}
	if c.opens != 1 {
		t.Errorf("opens = %d, want 1", c.opens)
	}
}

func TestLeaveSchedulesCloseAndReenterCancels(t *testing.T) {
	h, sched, c := newIntent(Config{CloseDelay: 200 * time.Millisecond})
	h.SetOpen(true)

	h.PointerEnter(mouse.Point{X: 0, Y: 0})
	h.PointerLeave(mouse.Point{X: 0, Y: 9})
	if h.Pending() != PendingClose {
		t.Fatalf("pending = %v, want close", h.Pending())
	}
	sched.Advance(100 * time.Millisecond)
	h.PointerEnter(mouse.Point{X: 0, Y: 0})
	if h.Pending() != PendingNone {
		t.Errorf("pending after re-enter = %v, want none", h.Pending())
	}
	sched.Advance(time.Second)
	if c.closes != 0 {
		t.Errorf("closes = %d, want 0", c.closes)
	}

	h.PointerLeave(mouse.Point{X: 0, Y: 9})
	sched.Advance(200 * time.Millisecond)
	if c.closes != 1 {
		t.Errorf("closes = %d, want 1", c.closes)
	}
}

func TestAtMostOnePendingTimer(t *testing.T) {
	h, sched, _ := newIntent(Config{OpenDelay: 100 * time.Millisecond, CloseDelay: 100 * time.Millisecond})

	steps := []func(){
		func() { h.PointerEnter(mouse.Point{}) },
		func() { h.PointerMove(mouse.Point{X: 3}) },
		func() { h.PointerLeave(mouse.Point{Y: 9}) },
		func() { h.SetOpen(true) },
		func() { h.PointerEnter(mouse.Point{}) },
		func() { h.PointerLeave(mouse.Point{Y: 9}) },
		func() { h.PointerEnter(mouse.Point{}) },
	}
	for i, step := range steps {
		step()
		if sched.Pending() > 1 {
			t.Fatalf("step %d: pending timers = %d, want <= 1", i, sched.Pending())
		}
	}
}

func TestGraceAreaDefersClose(t *testing.T) {
	h, sched, c := newIntent(Config{CloseDelay: 50 * time.Millisecond, GraceTimeout: 300 * time.Millisecond})
	h.SetTriggerRect(mouse.Rect{X: 0, Y: 0, W: 10, H: 1})
	h.SetSurfaceRect(mouse.Rect{X: 0, Y: 2, W: 20, H: 5})
	h.SetOpen(true)

	h.PointerEnter(mouse.Point{X: 5, Y: 0})
	h.PointerLeave(mouse.Point{X: 5, Y: 1})
	if !h.InGrace() {
		t.Fatal("expected grace period when heading for the surface")
	}
	sched.Advance(100 * time.Millisecond)
	if c.closes != 0 {
		t.Fatalf("closes during grace = %d, want 0", c.closes)
	}

	h.SurfaceEnter()
	sched.Advance(time.Second)
	if c.closes != 0 {
		t.Errorf("closes while on surface = %d, want 0", c.closes)
	}

	h.SurfaceLeave(mouse.Point{X: 30, Y: 4})
	sched.Advance(50 * time.Millisecond)
	if c.closes != 1 {
		t.Errorf("closes after leaving surface = %d, want 1", c.closes)
	}
}

func TestGraceAreaEndsWhenPointerExitsHull(t *testing.T) {
	h, sched, c := newIntent(Config{CloseDelay: 50 * time.Millisecond, GraceTimeout: 300 * time.Millisecond})
	h.SetTriggerRect(mouse.Rect{X: 0, Y: 0, W: 10, H: 1})
	h.SetSurfaceRect(mouse.Rect{X: 0, Y: 2, W: 10, H: 5})
	h.SetOpen(true)

	h.PointerEnter(mouse.Point{X: 5, Y: 0})
	h.PointerLeave(mouse.Point{X: 5, Y: 1})
	h.PointerMove(mouse.Point{X: 15, Y: 1})
	if h.InGrace() {
		t.Fatal("grace should end outside the hull")
	}
	sched.Advance(50 * time.Millisecond)
	if c.closes != 1 {
		t.Errorf("closes = %d, want 1", c.closes)
	}
}

func TestGraceAreaTimesOut(t *testing.T) {
	h, sched, c := newIntent(Config{GraceTimeout: 300 * time.Millisecond})
	h.SetTriggerRect(mouse.Rect{X: 0, Y: 0, W: 10, H: 1})
	h.SetSurfaceRect(mouse.Rect{X: 0, Y: 2, W: 10, H: 5})
	h.SetOpen(true)

	h.PointerEnter(mouse.Point{X: 5, Y: 0})
	h.PointerLeave(mouse.Point{X: 5, Y: 1})
	sched.Advance(299 * time.Millisecond)
	if c.closes != 0 {
		t.Fatalf("closes before timeout = %d, want 0", c.closes)
	}
	sched.Advance(time.Millisecond)
	if c.closes != 1 {
		t.Errorf("closes after timeout = %d, want 1", c.closes)
	}
}

func TestLeavingAwayFromSurfaceClosesNow(t *testing.T) {
	h, _, c := newIntent(Config{GraceTimeout: 300 * time.Millisecond})
	h.SetTriggerRect(mouse.Rect{X: 0, Y: 2, W: 10, H: 1})
	h.SetSurfaceRect(mouse.Rect{X: 0, Y: 4, W: 10, H: 5})
	h.SetOpen(true)

	h.PointerEnter(mouse.Point{X: 5, Y: 2})
	h.PointerLeave(mouse.Point{X: 5, Y: 1})
	if c.closes != 1 {
		t.Errorf("closes = %d, want 1", c.closes)
	}
}

func TestPointerDownBeforeOpenCancels(t *testing.T) {
	h, sched, c := newIntent(Config{OpenDelay: 300 * time.Millisecond})

	h.PointerEnter(mouse.Point{})
	if !h.PointerDownBeforeOpen() {
		t.Fatal("PointerDownBeforeOpen() = false with an open pending")
	}
	sched.Advance(time.Second)
	if c.opens != 0 {
		t.Errorf("opens = %d, want 0", c.opens)
	}
	if h.PointerDownBeforeOpen() {
		t.Error("PointerDownBeforeOpen() = true with nothing pending")
	}
}

func TestDisableAndStopClearTimers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*Intent)
	}{
		{"disable", (*Intent).Disable},
		{"stop", (*Intent).Stop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sched, c := newIntent(Config{OpenDelay: 300 * time.Millisecond})
			h.PointerEnter(mouse.Point{})
			tt.fn(h)
			if sched.Pending() != 0 {
				t.Errorf("pending timers = %d, want 0", sched.Pending())
			}
			h.PointerEnter(mouse.Point{})
			sched.Advance(time.Second)
			if c.opens != 0 {
				t.Errorf("opens = %d, want 0", c.opens)
			}
		})
	}
}

func TestFromConfigAppliesOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Hover.Mode = "delay"
	got := FromConfig(cfg.Hover, &cfg.Tooltip)
	if got.Mode != ModeDelay {
		t.Errorf("mode = %v, want delay", got.Mode)
	}
	if got.OpenDelay != cfg.Tooltip.OpenDelay {
		t.Errorf("open delay = %v, want %v", got.OpenDelay, cfg.Tooltip.OpenDelay)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeRest, false},
		{"rest", ModeRest, false},
		{"delay", ModeDelay, false},
		{"hover", ModeRest, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
