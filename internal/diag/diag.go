// Package diag reports popup configuration errors.
//
// Configuration errors are programmer mistakes (a value switching between
// controlled and uncontrolled, an open prop without a change callback). With
// features.StrictDiagnostics on they panic so they surface in development and
// tests; otherwise they are logged and the caller falls back to its last
// known-good mode.
package diag

import (
	"errors"
	"log/slog"

	"github.com/wilbur182/disclosure/internal/features"
)

var (
	// ErrModeSwitch is reported when a value cell changes between controlled
	// and uncontrolled mode after creation.
	ErrModeSwitch = errors.New("value switched between controlled and uncontrolled")

	// ErrMissingOnChange is reported for a controlled value with no change
	// callback: every write would be silently dropped.
	ErrMissingOnChange = errors.New("controlled value has no change callback")

	// ErrMissingScheduler is reported when a popup is built without a timer
	// scheduler; it falls back to one that never fires.
	ErrMissingScheduler = errors.New("popup has no timer scheduler")

	// ErrDisposed is reported when an instance is used after Dispose.
	ErrDisposed = errors.New("popup used after dispose")
)

// Report panics with err in strict mode and logs it at Warn otherwise.
func Report(logger *slog.Logger, err error, args ...any) {
	if err == nil {
		return
	}
	if features.Enabled(features.StrictDiagnostics) {
		panic(err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("popup: configuration error", append([]any{"err", err}, args...)...)
}
