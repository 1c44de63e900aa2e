// Package transition tracks a popup's mount lifecycle around its enter and
// exit animations.
//
// Phases advance Unmounted -> Starting -> Open -> Ending -> Unmounted. The
// popup is mounted in every phase except Unmounted, so content stays in the
// tree while the exit animation plays and is removed only once the rendering
// layer reports it finished (or no exit animation was declared).
package transition

import (
	"log/slog"
	"time"

	"github.com/wilbur182/disclosure/internal/features"
	"github.com/wilbur182/disclosure/internal/timer"
)

// Phase is the transition phase.
type Phase int

const (
	PhaseUnmounted Phase = iota
	PhaseStarting
	PhaseOpen
	PhaseEnding
)

func (p Phase) String() string {
	switch p {
	case PhaseUnmounted:
		return "unmounted"
	case PhaseStarting:
		return "starting"
	case PhaseOpen:
		return "open"
	case PhaseEnding:
		return "ending"
	}
	return "unknown"
}

// Edge identifies the enter or exit animation.
type Edge int

const (
	EdgeEnter Edge = iota
	EdgeExit
)

func (e Edge) String() string {
	if e == EdgeEnter {
		return "enter"
	}
	return "exit"
}

// Animator is the rendering layer's view of a surface's animations.
type Animator interface {
	// Declares reports whether the surface has an animation for edge at the
	// moment the transition starts.
	Declares(edge Edge) bool
	// OnFinished registers a single-shot callback for when the edge's
	// animation completes. The returned func unregisters it.
	OnFinished(edge Edge, fn func()) (cancel func())
}

// Tracker drives one popup's phase from its open flag.
type Tracker struct {
	sched       timer.Scheduler
	anim        Animator
	frameDelay  time.Duration
	exitTimeout time.Duration
	logger      *slog.Logger

	open  bool
	phase Phase
	gen   uint64

	settle      timer.Handle
	cancelEnter func()
	cancelExit  func()
	fallback    timer.Handle

	phaseListeners    []func(from, to Phase)
	completeListeners []func(open bool)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithFrameDelay sets the deferral used in place of an enter animation.
func WithFrameDelay(d time.Duration) Option {
	return func(t *Tracker) { t.frameDelay = d }
}

// WithExitTimeout sets the force-unmount fallback for an exit signal that
// never arrives. Zero disables it.
func WithExitTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.exitTimeout = d }
}

// WithLogger sets the tracker's logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New creates a tracker in PhaseUnmounted. anim may be nil, meaning no
// animations are ever declared.
func New(sched timer.Scheduler, anim Animator, opts ...Option) *Tracker {
	t := &Tracker{
		sched:       sched,
		anim:        anim,
		frameDelay:  16 * time.Millisecond,
		exitTimeout: time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// Mounted reports whether popup content should be materialized.
func (t *Tracker) Mounted() bool {
	return t.phase != PhaseUnmounted
}

// IsOpen returns the last open flag given to SetOpen.
func (t *Tracker) IsOpen() bool {
	return t.open
}

// OnPhase registers fn for every phase change and returns an unsubscribe
// function.
func (t *Tracker) OnPhase(fn func(from, to Phase)) func() {
	t.phaseListeners = append(t.phaseListeners, fn)
	idx := len(t.phaseListeners) - 1
	return func() { t.phaseListeners[idx] = nil }
}

// OnComplete registers fn for settled transitions: true once Open is
// reached, false once Unmounted is reached.
func (t *Tracker) OnComplete(fn func(open bool)) func() {
	t.completeListeners = append(t.completeListeners, fn)
	idx := len(t.completeListeners) - 1
	return func() { t.completeListeners[idx] = nil }
}

// SetOpen feeds the popup's open flag into the tracker.
func (t *Tracker) SetOpen(open bool) {
	if open == t.open {
		return
	}
	t.open = open
	if open {
		t.enter()
	} else {
		t.exit()
	}
}

func (t *Tracker) enter() {
	switch t.phase {
	case PhaseUnmounted:
		t.setPhase(PhaseStarting)
	case PhaseEnding:
		// Cancel the pending unmount before anything observes it
		t.cancelPendingExit()
		t.setPhase(PhaseStarting)
	default:
		return
	}

	t.gen++
	gen := t.gen
	done := func() {
		if gen != t.gen || t.phase != PhaseStarting {
			t.logger.Debug("transition: stale enter signal", "phase", t.phase)
			return
		}
		t.cancelPendingEnter()
		t.setPhase(PhaseOpen)
		t.complete(true)
	}

	if t.declares(EdgeEnter) {
		t.cancelEnter = t.anim.OnFinished(EdgeEnter, done)
		return
	}
	t.settle = t.sched.AfterFunc(t.frameDelay, done)
}

func (t *Tracker) exit() {
	switch t.phase {
	case PhaseStarting:
		// Never skip Open: pass through it without completing the enter
		t.cancelPendingEnter()
		t.setPhase(PhaseOpen)
	case PhaseOpen:
	default:
		return
	}
	t.cancelPendingEnter()
	t.setPhase(PhaseEnding)

	t.gen++
	gen := t.gen

	if !t.declares(EdgeExit) {
		t.finishExit()
		return
	}

	t.cancelExit = t.anim.OnFinished(EdgeExit, func() {
		if gen != t.gen || t.phase != PhaseEnding {
			t.logger.Debug("transition: stale exit signal", "phase", t.phase)
			return
		}
		t.finishExit()
	})
	if t.exitTimeout > 0 {
		t.fallback = t.sched.AfterFunc(t.exitTimeout, func() {
			if gen != t.gen || t.phase != PhaseEnding {
				return
			}
			t.logger.Warn("transition: exit signal never arrived, unmounting", "timeout", t.exitTimeout)
			t.finishExit()
		})
	}
}

func (t *Tracker) finishExit() {
	t.cancelPendingExit()
	t.setPhase(PhaseUnmounted)
	t.complete(false)
}

// declares applies the fallback policy: animations count only when the
// animator declares them at transition start and they are not disabled
// process-wide.
func (t *Tracker) declares(edge Edge) bool {
	if t.anim == nil || features.Enabled(features.AnimationsDisabled) {
		return false
	}
	return t.anim.Declares(edge)
}

func (t *Tracker) cancelPendingEnter() {
	timer.Stop(t.settle)
	t.settle = nil
	if t.cancelEnter != nil {
		t.cancelEnter()
		t.cancelEnter = nil
	}
}

func (t *Tracker) cancelPendingExit() {
	timer.Stop(t.fallback)
	t.fallback = nil
	if t.cancelExit != nil {
		t.cancelExit()
		t.cancelExit = nil
	}
}

func (t *Tracker) setPhase(p Phase) {
	if p == t.phase {
		return
	}
	from := t.phase
	t.phase = p
	t.logger.Debug("transition: phase", "from", from, "to", p)
	for _, fn := range t.phaseListeners {
		if fn != nil {
			fn(from, p)
		}
	}
}

func (t *Tracker) complete(open bool) {
	for _, fn := range t.completeListeners {
		if fn != nil {
			fn(open)
		}
	}
}

// Stop cancels every pending timer and signal registration. The phase is
// left as is; a stopped tracker never changes phase again on its own.
func (t *Tracker) Stop() {
	t.gen++
	t.cancelPendingEnter()
	t.cancelPendingExit()
}
