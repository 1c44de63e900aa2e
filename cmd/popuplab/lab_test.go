package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wilbur182/disclosure/internal/config"
	"github.com/wilbur182/disclosure/internal/features"
	"github.com/wilbur182/disclosure/internal/popup"
)

func TestNewLabMountsEveryKind(t *testing.T) {
	l := newLab(config.Default(), "", slog.Default())
	seen := map[popup.Kind]bool{}
	for _, w := range l.host.Widgets() {
		seen[w.Popup.Kind()] = true
	}
	for _, k := range []popup.Kind{popup.Tooltip, popup.PreviewCard, popup.Popover, popup.Menu,
		popup.ContextMenu, popup.Select, popup.Combobox, popup.Dialog} {
		if !seen[k] {
			t.Errorf("no widget for %v", k)
		}
	}
}

func TestHoverFor(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		kind      popup.Kind
		wantOpen  time.Duration
		wantClose time.Duration
	}{
		{popup.Tooltip, 600 * time.Millisecond, 0},
		{popup.PreviewCard, 600 * time.Millisecond, 300 * time.Millisecond},
		{popup.Menu, popup.DefaultHover(popup.Menu).OpenDelay, popup.DefaultHover(popup.Menu).CloseDelay},
	}
	for _, tt := range tests {
		got := hoverFor(tt.kind, cfg)
		if got.OpenDelay != tt.wantOpen || got.CloseDelay != tt.wantClose {
			t.Errorf("hoverFor(%v) = %v/%v, want %v/%v", tt.kind, got.OpenDelay, got.CloseDelay, tt.wantOpen, tt.wantClose)
		}
	}
}

func TestReloadAppliesHoverDelays(t *testing.T) {
	t.Cleanup(features.Reset)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"tooltip":{"openDelay":"150ms"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	l := newLab(config.Default(), path, slog.Default())
	if err := l.reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	for _, w := range l.host.Widgets() {
		if w.Popup.Kind() == popup.Tooltip {
			if got := w.Popup.Hover().Config().OpenDelay; got != 150*time.Millisecond {
				t.Errorf("tooltip open delay = %v, want 150ms", got)
			}
		}
	}
}

func TestApplyFeatureOverrides(t *testing.T) {
	features.Init(config.Default())
	t.Cleanup(features.Reset)

	if err := applyFeatureOverrides([]string{"animations_disabled", "hover_grace_area=false"}); err != nil {
		t.Fatalf("applyFeatureOverrides: %v", err)
	}
	if !features.Enabled(features.AnimationsDisabled) || features.Enabled(features.HoverGraceArea) {
		t.Error("overrides not applied")
	}
	if err := applyFeatureOverrides([]string{"nope=true"}); err == nil {
		t.Error("unknown feature accepted")
	}
	if err := applyFeatureOverrides([]string{"strict_diagnostics=maybe"}); err == nil {
		t.Error("bad bool accepted")
	}
}

func TestPersistWritesThemeAndFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetConfigPath(path)
	t.Cleanup(config.ResetConfigPath)
	features.Init(config.Default())
	t.Cleanup(features.Reset)

	if err := persist("nord", []string{"animations_disabled=true"}); err != nil {
		t.Fatalf("persist: %v", err)
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.UI.Theme.Name != "nord" {
		t.Errorf("theme = %q, want nord", cfg.UI.Theme.Name)
	}
	if !cfg.Features.Flags["animations_disabled"] {
		t.Error("animations_disabled not saved")
	}
}
