package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.List.TypeaheadTimeout != 500*time.Millisecond {
		t.Errorf("typeahead timeout = %v, want 500ms", cfg.List.TypeaheadTimeout)
	}
	if !cfg.List.Loop {
		t.Error("list loop should default to true")
	}
}

func TestValidate_RepairsNegatives(t *testing.T) {
	cfg := Default()
	cfg.Hover.OpenDelay = -time.Second
	cfg.List.TypeaheadTimeout = 0
	cfg.Transition.ExitTimeout = -1
	cfg.Keymap.Overrides = nil

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Hover.OpenDelay != 0 {
		t.Errorf("open delay = %v, want 0", cfg.Hover.OpenDelay)
	}
	if cfg.List.TypeaheadTimeout != 500*time.Millisecond {
		t.Errorf("typeahead timeout = %v, want 500ms", cfg.List.TypeaheadTimeout)
	}
	if cfg.Transition.ExitTimeout != 0 {
		t.Errorf("exit timeout = %v, want 0", cfg.Transition.ExitTimeout)
	}
	if cfg.Keymap.Overrides == nil {
		t.Error("overrides map should be initialized")
	}
}

func TestValidate_RejectsUnknownMode(t *testing.T) {
	cfg := Default()
	cfg.Hover.Mode = "linger"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Hover.Mode != "rest" {
		t.Errorf("mode = %q, want rest", cfg.Hover.Mode)
	}
}

func TestLoadFrom_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
  "hover": {"openDelay": "300ms", "mode": "delay"},
  "list": {"loop": false},
  "keymap": {"overrides": {"ctrl+n": "next"}}
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Hover.OpenDelay != 300*time.Millisecond {
		t.Errorf("open delay = %v, want 300ms", cfg.Hover.OpenDelay)
	}
	if cfg.Hover.Mode != "delay" {
		t.Errorf("mode = %q, want delay", cfg.Hover.Mode)
	}
	if cfg.List.Loop {
		t.Error("loop should be overridden to false")
	}
	// Untouched sections keep defaults
	if cfg.Tooltip.OpenDelay != 600*time.Millisecond {
		t.Errorf("tooltip delay = %v, want 600ms", cfg.Tooltip.OpenDelay)
	}
	if cfg.Keymap.Overrides["ctrl+n"] != "next" {
		t.Errorf("override missing: %v", cfg.Keymap.Overrides)
	}
}

func TestLoadFrom_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"hover":{"openDelay":"soon"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	SetConfigPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(ResetConfigPath)

	cfg := Default()
	cfg.Hover.CloseDelay = 150 * time.Millisecond
	cfg.List.Orientation = "horizontal"
	cfg.Features.Flags["animations_disabled"] = true
	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Hover.CloseDelay != 150*time.Millisecond {
		t.Errorf("close delay = %v, want 150ms", got.Hover.CloseDelay)
	}
	if got.List.Orientation != "horizontal" {
		t.Errorf("orientation = %q, want horizontal", got.List.Orientation)
	}
	if !got.Features.Flags["animations_disabled"] {
		t.Error("feature flag not persisted")
	}
}
