package features

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wilbur182/disclosure/internal/config"
)

// ErrNotInitialized is returned when the feature manager is not initialized.
var ErrNotInitialized = errors.New("feature manager not initialized")

// Feature represents a known feature flag with its default value.
type Feature struct {
	Name        string
	Default     bool
	Description string
}

// Known feature flags - add new features here.
var (
	// AnimationsDisabled makes every transition settle immediately, as if
	// no enter or exit animation were declared. Tests turn it on process-wide.
	AnimationsDisabled = Feature{
		Name:        "animations_disabled",
		Default:     false,
		Description: "Treat all popup transitions as having no animation",
	}

	// StrictDiagnostics turns configuration errors (e.g. switching a value
	// between controlled and uncontrolled) into panics instead of warnings.
	StrictDiagnostics = Feature{
		Name:        "strict_diagnostics",
		Default:     false,
		Description: "Panic on popup configuration errors (development builds)",
	}

	// HoverGraceArea keeps a hover popup open while the pointer travels from
	// the trigger toward the surface.
	HoverGraceArea = Feature{
		Name:        "hover_grace_area",
		Default:     true,
		Description: "Defer hover close while the pointer heads for the popup",
	}
)

// allFeatures is the registry of all known features.
var allFeatures = []Feature{
	AnimationsDisabled,
	StrictDiagnostics,
	HoverGraceArea,
}

// defaultValues provides O(1) lookup for feature defaults.
var defaultValues = buildDefaultMap()

func buildDefaultMap() map[string]bool {
	m := make(map[string]bool, len(allFeatures))
	for _, f := range allFeatures {
		m[f.Name] = f.Default
	}
	return m
}

// IsKnownFeature returns true if the feature name is registered.
func IsKnownFeature(name string) bool {
	_, ok := defaultValues[name]
	return ok
}

// Manager handles feature flag state.
type Manager struct {
	mu        sync.RWMutex
	cfg       *config.Config
	overrides map[string]bool // CLI overrides take precedence
}

// globalManager is the singleton instance.
var globalManager *Manager

// Init initializes the feature flag manager with the given config.
// Should be called once at startup after config is loaded.
func Init(cfg *config.Config) {
	globalManager = &Manager{
		cfg:       cfg,
		overrides: make(map[string]bool),
	}
}

// SetOverride sets a CLI override for a feature flag.
// Overrides take precedence over config values.
func SetOverride(name string, enabled bool) {
	if globalManager == nil {
		return
	}
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.overrides[name] = enabled
}

// Reload swaps in a freshly loaded config, keeping CLI overrides.
func Reload(cfg *config.Config) {
	if globalManager == nil {
		Init(cfg)
		return
	}
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.cfg = cfg
}

// IsEnabled checks if a feature is enabled.
// Priority: CLI override > config > default.
func IsEnabled(name string) bool {
	if globalManager == nil {
		return getDefault(name)
	}
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	return globalManager.resolve(name)
}

// Enabled is IsEnabled for a known Feature value.
func Enabled(f Feature) bool {
	return IsEnabled(f.Name)
}

// Reset drops the manager so lookups fall back to defaults.
func Reset() {
	globalManager = nil
}

// getDefault returns the default value for a feature.
func getDefault(name string) bool {
	if val, ok := defaultValues[name]; ok {
		return val
	}
	return false // Unknown features default to disabled
}

// List returns all known features with their current enabled state.
func List() map[string]bool {
	result := make(map[string]bool, len(allFeatures))
	if globalManager == nil {
		for _, f := range allFeatures {
			result[f.Name] = f.Default
		}
		return result
	}
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	for _, f := range allFeatures {
		result[f.Name] = globalManager.resolve(f.Name)
	}
	return result
}

// resolve checks feature state; the caller holds m.mu.
func (m *Manager) resolve(name string) bool {
	if enabled, ok := m.overrides[name]; ok {
		return enabled
	}
	if m.cfg != nil {
		if enabled, ok := m.cfg.Features.Flags[name]; ok {
			return enabled
		}
	}
	return getDefault(name)
}

// ListAll returns all known features with metadata.
// Returns a copy to prevent mutation of internal state.
func ListAll() []Feature {
	result := make([]Feature, len(allFeatures))
	copy(result, allFeatures)
	return result
}

// SetEnabled updates a feature flag in the config and saves it.
// Returns an error if the config cannot be saved or if the manager is not initialized.
func SetEnabled(name string, enabled bool) error {
	if globalManager == nil {
		return ErrNotInitialized
	}
	if !IsKnownFeature(name) {
		return fmt.Errorf("unknown feature %q", name)
	}

	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()

	// Reload from disk to avoid overwriting changes made since startup.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Features.Flags == nil {
		cfg.Features.Flags = make(map[string]bool)
	}
	cfg.Features.Flags[name] = enabled

	// Update in-memory config.
	globalManager.cfg.Features.Flags = cfg.Features.Flags

	return config.Save(cfg)
}
