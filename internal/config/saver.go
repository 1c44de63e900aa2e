package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Hover       saveHoverConfig      `json:"hover"`
	Tooltip     saveDelayConfig      `json:"tooltip"`
	PreviewCard saveDelayConfig      `json:"previewCard"`
	List        saveListConfig       `json:"list"`
	Transition  saveTransitionConfig `json:"transition"`
	Keymap      KeymapConfig         `json:"keymap"`
	UI          UIConfig             `json:"ui"`
	Features    FeaturesConfig       `json:"features,omitempty"`
}

type saveHoverConfig struct {
	OpenDelay             string `json:"openDelay"`
	CloseDelay            string `json:"closeDelay"`
	Mode                  string `json:"mode,omitempty"`
	GraceTimeout          string `json:"graceTimeout,omitempty"`
	RestThreshold         *int   `json:"restThreshold,omitempty"`
	PatientClickThreshold string `json:"patientClickThreshold,omitempty"`
}

type saveDelayConfig struct {
	OpenDelay  string `json:"openDelay"`
	CloseDelay string `json:"closeDelay"`
}

type saveListConfig struct {
	Loop             *bool  `json:"loop,omitempty"`
	Orientation      string `json:"orientation,omitempty"`
	TypeaheadTimeout string `json:"typeaheadTimeout,omitempty"`
	PageSize         *int   `json:"pageSize,omitempty"`
}

type saveTransitionConfig struct {
	FrameDelay  string `json:"frameDelay,omitempty"`
	ExitTimeout string `json:"exitTimeout,omitempty"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Hover: saveHoverConfig{
			OpenDelay:             cfg.Hover.OpenDelay.String(),
			CloseDelay:            cfg.Hover.CloseDelay.String(),
			Mode:                  cfg.Hover.Mode,
			GraceTimeout:          cfg.Hover.GraceTimeout.String(),
			RestThreshold:         &cfg.Hover.RestThreshold,
			PatientClickThreshold: cfg.Hover.PatientClickThreshold.String(),
		},
		Tooltip: saveDelayConfig{
			OpenDelay:  cfg.Tooltip.OpenDelay.String(),
			CloseDelay: cfg.Tooltip.CloseDelay.String(),
		},
		PreviewCard: saveDelayConfig{
			OpenDelay:  cfg.PreviewCard.OpenDelay.String(),
			CloseDelay: cfg.PreviewCard.CloseDelay.String(),
		},
		List: saveListConfig{
			Loop:             &cfg.List.Loop,
			Orientation:      cfg.List.Orientation,
			TypeaheadTimeout: cfg.List.TypeaheadTimeout.String(),
			PageSize:         &cfg.List.PageSize,
		},
		Transition: saveTransitionConfig{
			FrameDelay:  cfg.Transition.FrameDelay.String(),
			ExitTimeout: cfg.Transition.ExitTimeout.String(),
		},
		Keymap:   cfg.Keymap,
		UI:       cfg.UI,
		Features: cfg.Features,
	}
}

// Save writes the config to ConfigPath().
func Save(cfg *Config) error {
	path := ConfigPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SaveTheme updates only the theme name in config and saves.
func SaveTheme(themeName string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.UI.Theme.Name = themeName
	cfg.UI.Theme.Overrides = make(map[string]string)
	return Save(cfg)
}
