// Package timer provides the cancellable timers the popup engine runs on.
//
// Every timer belongs to exactly one engine instance and fires on the same
// event timeline as input events: Manual fires from Advance, Tea fires when
// its FiredMsg is routed back through a bubbletea Update. Neither runs
// callbacks on a separate goroutine.
package timer

import "time"

// Handle is a scheduled callback. Stop prevents it from running and reports
// whether it was still pending.
type Handle interface {
	Stop() bool
}

// Scheduler schedules single-shot callbacks on the engine timeline.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Handle
	Now() time.Time
}

// Stop stops h if it is non-nil. Convenience for fields that may be unset.
func Stop(h Handle) {
	if h != nil {
		h.Stop()
	}
}

// noop is returned for callbacks that can never fire.
type noop struct{}

func (noop) Stop() bool { return false }
