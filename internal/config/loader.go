package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var pathOverride string

// SetConfigPath redirects ConfigPath, for --config and tests.
func SetConfigPath(path string) {
	pathOverride = path
}

// ResetConfigPath restores the default config path.
func ResetConfigPath() {
	pathOverride = ""
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if pathOverride != "" {
		return pathOverride
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "disclosure", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "disclosure", "config.json")
	}
	return filepath.Join(home, ".config", "disclosure", "config.json")
}

// rawConfig mirrors saveConfig for decoding. Pointers distinguish "absent"
// from zero so absent fields keep their defaults.
type rawConfig struct {
	Hover       *rawHoverConfig      `json:"hover"`
	Tooltip     *rawDelayConfig      `json:"tooltip"`
	PreviewCard *rawDelayConfig      `json:"previewCard"`
	List        *rawListConfig       `json:"list"`
	Transition  *rawTransitionConfig `json:"transition"`
	Keymap      *KeymapConfig        `json:"keymap"`
	UI          *UIConfig            `json:"ui"`
	Features    *FeaturesConfig      `json:"features"`
}

type rawHoverConfig struct {
	OpenDelay             *string `json:"openDelay"`
	CloseDelay            *string `json:"closeDelay"`
	Mode                  *string `json:"mode"`
	GraceTimeout          *string `json:"graceTimeout"`
	RestThreshold         *int    `json:"restThreshold"`
	PatientClickThreshold *string `json:"patientClickThreshold"`
}

type rawDelayConfig struct {
	OpenDelay  *string `json:"openDelay"`
	CloseDelay *string `json:"closeDelay"`
}

type rawListConfig struct {
	Loop             *bool   `json:"loop"`
	Orientation      *string `json:"orientation"`
	TypeaheadTimeout *string `json:"typeaheadTimeout"`
	PageSize         *int    `json:"pageSize"`
}

type rawTransitionConfig struct {
	FrameDelay  *string `json:"frameDelay"`
	ExitTimeout *string `json:"exitTimeout"`
}

// Load reads the config from ConfigPath. A missing file yields defaults.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, layering it over Default().
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := mergeConfig(cfg, &raw); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeConfig(cfg *Config, raw *rawConfig) error {
	if h := raw.Hover; h != nil {
		if err := setDuration(&cfg.Hover.OpenDelay, h.OpenDelay, "hover.openDelay"); err != nil {
			return err
		}
		if err := setDuration(&cfg.Hover.CloseDelay, h.CloseDelay, "hover.closeDelay"); err != nil {
			return err
		}
		if err := setDuration(&cfg.Hover.GraceTimeout, h.GraceTimeout, "hover.graceTimeout"); err != nil {
			return err
		}
		if err := setDuration(&cfg.Hover.PatientClickThreshold, h.PatientClickThreshold, "hover.patientClickThreshold"); err != nil {
			return err
		}
		if h.Mode != nil {
			cfg.Hover.Mode = *h.Mode
		}
		if h.RestThreshold != nil {
			cfg.Hover.RestThreshold = *h.RestThreshold
		}
	}
	if d := raw.Tooltip; d != nil {
		if err := mergeDelay(&cfg.Tooltip, d, "tooltip"); err != nil {
			return err
		}
	}
	if d := raw.PreviewCard; d != nil {
		if err := mergeDelay(&cfg.PreviewCard, d, "previewCard"); err != nil {
			return err
		}
	}
	if l := raw.List; l != nil {
		if l.Loop != nil {
			cfg.List.Loop = *l.Loop
		}
		if l.Orientation != nil {
			cfg.List.Orientation = *l.Orientation
		}
		if l.PageSize != nil {
			cfg.List.PageSize = *l.PageSize
		}
		if err := setDuration(&cfg.List.TypeaheadTimeout, l.TypeaheadTimeout, "list.typeaheadTimeout"); err != nil {
			return err
		}
	}
	if tr := raw.Transition; tr != nil {
		if err := setDuration(&cfg.Transition.FrameDelay, tr.FrameDelay, "transition.frameDelay"); err != nil {
			return err
		}
		if err := setDuration(&cfg.Transition.ExitTimeout, tr.ExitTimeout, "transition.exitTimeout"); err != nil {
			return err
		}
	}
	if raw.Keymap != nil && raw.Keymap.Overrides != nil {
		cfg.Keymap.Overrides = raw.Keymap.Overrides
	}
	if raw.UI != nil {
		if raw.UI.Theme.Name != "" {
			cfg.UI.Theme.Name = raw.UI.Theme.Name
		}
		if raw.UI.Theme.Overrides != nil {
			cfg.UI.Theme.Overrides = raw.UI.Theme.Overrides
		}
	}
	if raw.Features != nil && raw.Features.Flags != nil {
		cfg.Features.Flags = raw.Features.Flags
	}
	return nil
}

func mergeDelay(dst *DelayConfig, raw *rawDelayConfig, section string) error {
	if err := setDuration(&dst.OpenDelay, raw.OpenDelay, section+".openDelay"); err != nil {
		return err
	}
	return setDuration(&dst.CloseDelay, raw.CloseDelay, section+".closeDelay")
}

// setDuration parses s into dst when present.
func setDuration(dst *time.Duration, s *string, field string) error {
	if s == nil || *s == "" {
		return nil
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, field, err)
	}
	*dst = d
	return nil
}
