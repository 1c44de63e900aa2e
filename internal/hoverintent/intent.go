// Package hoverintent decides when a pointer resting on a trigger should open
// its popup, and when leaving should close it.
package hoverintent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/wilbur182/disclosure/internal/config"
	"github.com/wilbur182/disclosure/internal/features"
	"github.com/wilbur182/disclosure/internal/mouse"
	"github.com/wilbur182/disclosure/internal/timer"
)

// Mode selects how pointer movement affects a scheduled open.
type Mode int

const (
	// ModeRest requires the pointer to stop moving for the whole delay.
	ModeRest Mode = iota
	// ModeDelay opens after the delay regardless of movement.
	ModeDelay
)

func (m Mode) String() string {
	if m == ModeDelay {
		return "delay"
	}
	return "rest"
}

// ParseMode parses "rest" or "delay". Empty means rest.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "rest":
		return ModeRest, nil
	case "delay":
		return ModeDelay, nil
	}
	return ModeRest, fmt.Errorf("hoverintent: unknown mode %q", s)
}

// Pending is the action waiting on the timer.
type Pending int

const (
	PendingNone Pending = iota
	PendingOpen
	PendingClose
)

func (p Pending) String() string {
	switch p {
	case PendingOpen:
		return "open"
	case PendingClose:
		return "close"
	}
	return "none"
}

// Config holds the hover timings.
type Config struct {
	OpenDelay  time.Duration
	CloseDelay time.Duration
	Mode       Mode
	// RestThreshold is the movement in cells, Manhattan, that restarts a
	// rest-mode open timer.
	RestThreshold int
	// GraceTimeout bounds how long a pointer heading for the surface keeps
	// the popup open before reaching it. Zero disables the grace area.
	GraceTimeout time.Duration
}

// FromConfig builds a Config from the hover section of the config file,
// with per-kind delay overrides applied when non-nil.
func FromConfig(h config.HoverConfig, override *config.DelayConfig) Config {
	mode, _ := ParseMode(h.Mode)
	c := Config{
		OpenDelay:     h.OpenDelay,
		CloseDelay:    h.CloseDelay,
		Mode:          mode,
		RestThreshold: h.RestThreshold,
		GraceTimeout:  h.GraceTimeout,
	}
	if override != nil {
		c.OpenDelay = override.OpenDelay
		c.CloseDelay = override.CloseDelay
	}
	return c
}

// Callbacks are invoked when the intent resolves.
type Callbacks struct {
	Open  func()
	Close func()
}

// Intent is the hover state of one trigger and its surface.
type Intent struct {
	sched  timer.Scheduler
	cfg    Config
	cb     Callbacks
	logger *slog.Logger

	pending Pending
	handle  timer.Handle
	grace   bool

	trigger mouse.Rect
	surface mouse.Rect

	inTrigger bool
	inSurface bool
	open      bool
	disabled  bool
	stopped   bool

	last      mouse.Point
	hasLast   bool
	restPoint mouse.Point
}

// New creates an idle intent.
func New(sched timer.Scheduler, cfg Config, cb Callbacks) *Intent {
	return &Intent{
		sched:  sched,
		cfg:    cfg,
		cb:     cb,
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger. nil keeps the current one.
func (h *Intent) SetLogger(l *slog.Logger) {
	if l != nil {
		h.logger = l
	}
}

// SetConfig replaces the timings for future scheduling.
func (h *Intent) SetConfig(cfg Config) {
	h.cfg = cfg
}

// Config returns the current timings.
func (h *Intent) Config() Config {
	return h.cfg
}

// Pending returns the action waiting on the timer.
func (h *Intent) Pending() Pending {
	return h.pending
}

// InGrace reports whether a close is deferred because the pointer is
// heading for the surface.
func (h *Intent) InGrace() bool {
	return h.pending == PendingClose && h.grace
}

// Hovering reports whether the pointer is over the trigger or the surface.
func (h *Intent) Hovering() bool {
	return h.inTrigger || h.inSurface
}

// SetTriggerRect records the trigger's bounds for the grace check.
func (h *Intent) SetTriggerRect(r mouse.Rect) {
	h.trigger = r
}

// SetSurfaceRect records the surface's bounds for the grace check.
func (h *Intent) SetSurfaceRect(r mouse.Rect) {
	h.surface = r
}

// SetOpen tells the intent the popup's open flag changed for any reason.
func (h *Intent) SetOpen(open bool) {
	h.open = open
	if open && h.pending == PendingOpen {
		h.cancel()
	}
	if !open && h.pending == PendingClose {
		h.cancel()
	}
}

// PointerEnter handles the pointer entering the trigger at p.
func (h *Intent) PointerEnter(p mouse.Point) {
	h.inTrigger = true
	h.track(p)
	if !h.active() {
		return
	}
	if h.pending == PendingClose {
		h.cancel()
	}
	if h.open || h.pending == PendingOpen {
		return
	}
	h.scheduleOpen(p)
}

// PointerMove handles pointer movement anywhere on screen.
func (h *Intent) PointerMove(p mouse.Point) {
	prev, had := h.last, h.hasLast
	h.track(p)
	if !h.active() {
		return
	}

	if h.InGrace() {
		hull := h.trigger.Union(h.surface)
		if !hull.ContainsPoint(p) || (had && h.surface.Distance(p) > h.surface.Distance(prev)) {
			h.logger.Debug("hoverintent: left grace area", "x", p.X, "y", p.Y)
			h.scheduleClose()
		}
		return
	}

	if h.pending != PendingOpen || h.cfg.Mode != ModeRest {
		return
	}
	if distance(h.restPoint, p) > h.cfg.RestThreshold {
		h.scheduleOpen(p)
	}
}

// PointerLeave handles the pointer leaving the trigger for p.
func (h *Intent) PointerLeave(p mouse.Point) {
	from, had := h.last, h.hasLast
	h.inTrigger = false
	h.track(p)
	if !h.active() {
		return
	}
	if h.pending == PendingOpen {
		h.cancel()
		return
	}
	if !h.open || h.inSurface {
		return
	}
	if had && h.headingFor(h.surface, from, p) {
		h.startGrace()
		return
	}
	h.scheduleClose()
}

// SurfaceEnter handles the pointer reaching the popup surface.
func (h *Intent) SurfaceEnter() {
	h.inSurface = true
	if h.pending == PendingClose {
		h.cancel()
	}
}

// SurfaceLeave handles the pointer leaving the popup surface for p.
func (h *Intent) SurfaceLeave(p mouse.Point) {
	from, had := h.last, h.hasLast
	h.inSurface = false
	h.track(p)
	if !h.active() || !h.open || h.inTrigger || h.trigger.ContainsPoint(p) {
		return
	}
	if had && h.headingFor(h.trigger, from, p) {
		h.startGrace()
		return
	}
	h.scheduleClose()
}

// PointerDownBeforeOpen handles a press on the trigger. It clears any
// timer and reports whether an open was pending, in which case the caller
// resolves the press with its direct open logic.
func (h *Intent) PointerDownBeforeOpen() bool {
	wasPending := h.pending == PendingOpen
	h.cancel()
	return wasPending
}

// Disable clears every timer and ignores pointer input until Enable.
func (h *Intent) Disable() {
	h.disabled = true
	h.cancel()
}

// Enable resumes handling pointer input.
func (h *Intent) Enable() {
	h.disabled = false
}

// Disabled reports whether the intent ignores input.
func (h *Intent) Disabled() bool {
	return h.disabled
}

// Stop clears every timer for good.
func (h *Intent) Stop() {
	h.stopped = true
	h.cancel()
}

func (h *Intent) active() bool {
	return !h.disabled && !h.stopped
}

func (h *Intent) track(p mouse.Point) {
	h.last = p
	h.hasLast = true
}

// headingFor reports whether moving from -> to brings the pointer closer to
// target while staying inside the trigger and surface hull.
func (h *Intent) headingFor(target mouse.Rect, from, to mouse.Point) bool {
	if target.Empty() || h.cfg.GraceTimeout <= 0 || !features.Enabled(features.HoverGraceArea) {
		return false
	}
	hull := h.trigger.Union(h.surface)
	if !hull.ContainsPoint(to) {
		return false
	}
	return target.Distance(to) < target.Distance(from)
}

func (h *Intent) scheduleOpen(p mouse.Point) {
	h.cancel()
	h.restPoint = p
	if h.cfg.OpenDelay <= 0 {
		h.fireOpen()
		return
	}
	h.pending = PendingOpen
	h.handle = h.sched.AfterFunc(h.cfg.OpenDelay, h.fireOpen)
}

func (h *Intent) scheduleClose() {
	h.cancel()
	if h.cfg.CloseDelay <= 0 {
		h.fireClose()
		return
	}
	h.pending = PendingClose
	h.handle = h.sched.AfterFunc(h.cfg.CloseDelay, h.fireClose)
}

func (h *Intent) startGrace() {
	h.cancel()
	h.logger.Debug("hoverintent: grace", "timeout", h.cfg.GraceTimeout)
	h.pending = PendingClose
	h.grace = true
	h.handle = h.sched.AfterFunc(h.cfg.GraceTimeout, h.fireClose)
}

func (h *Intent) cancel() {
	timer.Stop(h.handle)
	h.handle = nil
	h.pending = PendingNone
	h.grace = false
}

func (h *Intent) fireOpen() {
	h.handle = nil
	h.pending = PendingNone
	if !h.active() {
		return
	}
	h.open = true
	if h.cb.Open != nil {
		h.cb.Open()
	}
}

func (h *Intent) fireClose() {
	h.handle = nil
	h.pending = PendingNone
	h.grace = false
	if !h.active() || h.inSurface || h.inTrigger {
		return
	}
	h.open = false
	if h.cb.Close != nil {
		h.cb.Close()
	}
}

func distance(a, b mouse.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
