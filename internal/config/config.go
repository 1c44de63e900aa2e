package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned by Validate for values that cannot be repaired.
var ErrInvalid = errors.New("invalid config")

// Config is the root configuration structure.
type Config struct {
	Hover       HoverConfig      `json:"hover"`
	Tooltip     DelayConfig      `json:"tooltip"`
	PreviewCard DelayConfig      `json:"previewCard"`
	List        ListConfig       `json:"list"`
	Transition  TransitionConfig `json:"transition"`
	Keymap      KeymapConfig     `json:"keymap"`
	UI          UIConfig         `json:"ui"`
	Features    FeaturesConfig   `json:"features"`
}

// FeaturesConfig holds feature flag settings.
type FeaturesConfig struct {
	Flags map[string]bool `json:"flags"`
}

// HoverConfig configures hover intent for pointer-driven triggers.
type HoverConfig struct {
	OpenDelay  time.Duration `json:"openDelay"`
	CloseDelay time.Duration `json:"closeDelay"`
	// Mode is "rest" (pointer must stop moving) or "delay" (open after the
	// delay regardless of movement).
	Mode string `json:"mode"`
	// GraceTimeout bounds how long a pointer heading for the surface keeps
	// the popup open before reaching it.
	GraceTimeout time.Duration `json:"graceTimeout"`
	// RestThreshold is the movement in cells that restarts a rest-mode timer.
	RestThreshold int `json:"restThreshold"`
	// PatientClickThreshold is how long after a hover-open a press keeps the
	// popup open instead of toggling it closed.
	PatientClickThreshold time.Duration `json:"patientClickThreshold"`
}

// DelayConfig overrides hover delays for one popup kind.
type DelayConfig struct {
	OpenDelay  time.Duration `json:"openDelay"`
	CloseDelay time.Duration `json:"closeDelay"`
}

// ListConfig configures composite list navigation.
type ListConfig struct {
	Loop             bool          `json:"loop"`
	Orientation      string        `json:"orientation"` // "vertical", "horizontal", "both"
	TypeaheadTimeout time.Duration `json:"typeaheadTimeout"`
	PageSize         int           `json:"pageSize"`
}

// TransitionConfig configures the open/close transition tracker.
type TransitionConfig struct {
	// FrameDelay stands in for one animation frame when no enter
	// animation is declared.
	FrameDelay time.Duration `json:"frameDelay"`
	// ExitTimeout force-unmounts a closing popup whose exit signal never
	// arrives. Zero disables the fallback.
	ExitTimeout time.Duration `json:"exitTimeout"`
}

// KeymapConfig holds key binding overrides (key -> action ID).
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures the terminal rendering adapter.
type UIConfig struct {
	Theme ThemeConfig `json:"theme"`
}

// ThemeConfig configures the color theme.
type ThemeConfig struct {
	Name      string            `json:"name"`
	Overrides map[string]string `json:"overrides"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Hover: HoverConfig{
			OpenDelay:             0,
			CloseDelay:            0,
			Mode:                  "rest",
			GraceTimeout:          300 * time.Millisecond,
			RestThreshold:         1,
			PatientClickThreshold: 500 * time.Millisecond,
		},
		Tooltip: DelayConfig{
			OpenDelay:  600 * time.Millisecond,
			CloseDelay: 0,
		},
		PreviewCard: DelayConfig{
			OpenDelay:  600 * time.Millisecond,
			CloseDelay: 300 * time.Millisecond,
		},
		List: ListConfig{
			Loop:             true,
			Orientation:      "vertical",
			TypeaheadTimeout: 500 * time.Millisecond,
			PageSize:         10,
		},
		Transition: TransitionConfig{
			FrameDelay:  16 * time.Millisecond,
			ExitTimeout: time.Second,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			Theme: ThemeConfig{
				Name:      "default",
				Overrides: make(map[string]string),
			},
		},
		Features: FeaturesConfig{
			Flags: make(map[string]bool),
		},
	}
}

// Validate checks the configuration for errors, repairing values that
// would leave the engine without a usable timeline.
func (c *Config) Validate() error {
	if c.Hover.OpenDelay < 0 {
		c.Hover.OpenDelay = 0
	}
	if c.Hover.CloseDelay < 0 {
		c.Hover.CloseDelay = 0
	}
	switch c.Hover.Mode {
	case "rest", "delay":
	case "":
		c.Hover.Mode = "rest"
	default:
		return fmt.Errorf("%w: hover.mode %q", ErrInvalid, c.Hover.Mode)
	}
	if c.Hover.GraceTimeout < 0 {
		c.Hover.GraceTimeout = 300 * time.Millisecond
	}
	if c.Hover.RestThreshold < 0 {
		c.Hover.RestThreshold = 1
	}
	switch c.List.Orientation {
	case "vertical", "horizontal", "both":
	case "":
		c.List.Orientation = "vertical"
	default:
		return fmt.Errorf("%w: list.orientation %q", ErrInvalid, c.List.Orientation)
	}
	if c.List.TypeaheadTimeout <= 0 {
		c.List.TypeaheadTimeout = 500 * time.Millisecond
	}
	if c.List.PageSize <= 0 {
		c.List.PageSize = 10
	}
	if c.Transition.FrameDelay <= 0 {
		c.Transition.FrameDelay = 16 * time.Millisecond
	}
	if c.Transition.ExitTimeout < 0 {
		c.Transition.ExitTimeout = 0
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	if c.Features.Flags == nil {
		c.Features.Flags = make(map[string]bool)
	}
	return nil
}
