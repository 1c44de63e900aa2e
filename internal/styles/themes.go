package styles

import (
	"regexp"
	"slices"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu guards themes and current.
var themeMu sync.RWMutex

// hexColorRegex accepts #RRGGBB and #RRGGBBAA.
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds the colors popup styles are built from. JSON names are
// the keys accepted in ui.theme.overrides.
type ColorPalette struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
	Success string `json:"success"`

	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextSubtle    string `json:"textSubtle"`
	TextSelection string `json:"textSelection"` // text on highlighted items

	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	BorderActive string `json:"borderActive"`
	BorderMuted  string `json:"borderMuted"`
}

// field returns the palette entry an override key names, or nil.
func (p *ColorPalette) field(key string) *string {
	switch key {
	case "primary":
		return &p.Primary
	case "accent":
		return &p.Accent
	case "success":
		return &p.Success
	case "textPrimary":
		return &p.TextPrimary
	case "textSecondary":
		return &p.TextSecondary
	case "textMuted":
		return &p.TextMuted
	case "textSubtle":
		return &p.TextSubtle
	case "textSelection":
		return &p.TextSelection
	case "bgSecondary":
		return &p.BgSecondary
	case "bgTertiary":
		return &p.BgTertiary
	case "borderActive":
		return &p.BorderActive
	case "borderMuted":
		return &p.BorderMuted
	}
	return nil
}

// Theme is a named palette.
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// DefaultTheme is used when no theme, or an unknown one, is configured.
var DefaultTheme = Theme{
	Name:        "default",
	DisplayName: "Default Dark",
	Colors: ColorPalette{
		Primary: "#7C3AED",
		Accent:  "#F59E0B",
		Success: "#10B981",

		TextPrimary:   "#F9FAFB",
		TextSecondary: "#9CA3AF",
		TextMuted:     "#6B7280",
		TextSubtle:    "#4B5563",
		TextSelection: "#F9FAFB",

		BgSecondary: "#1F2937",
		BgTertiary:  "#374151",

		BorderActive: "#7C3AED",
		BorderMuted:  "#1F2937",
	},
}

// NordTheme is the Nord palette.
var NordTheme = Theme{
	Name:        "nord",
	DisplayName: "Nord",
	Colors: ColorPalette{
		Primary: "#88C0D0",
		Accent:  "#EBCB8B",
		Success: "#A3BE8C",

		TextPrimary:   "#D8DEE9",
		TextSecondary: "#E5E9F0",
		TextMuted:     "#4C566A",
		TextSubtle:    "#434C5E",
		TextSelection: "#ECEFF4",

		BgSecondary: "#3B4252",
		BgTertiary:  "#434C5E",

		BorderActive: "#88C0D0",
		BorderMuted:  "#3B4252",
	},
}

var (
	themes  = []Theme{DefaultTheme, NordTheme}
	current = DefaultTheme
)

// IsValidHexColor reports whether hex is #RRGGBB or #RRGGBBAA.
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme reports whether a built-in theme is called name.
func IsValidTheme(name string) bool {
	_, ok := lookup(name)
	return ok
}

// GetTheme returns the named theme, or DefaultTheme.
func GetTheme(name string) Theme {
	if t, ok := lookup(name); ok {
		return t
	}
	return DefaultTheme
}

// Current returns the applied theme, overrides included.
func Current() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return current
}

// ListThemes returns the theme names in sorted order.
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	slices.Sort(names)
	return names
}

func lookup(name string) (Theme, bool) {
	themeMu.RLock()
	defer themeMu.RUnlock()
	i := slices.IndexFunc(themes, func(t Theme) bool { return t.Name == name })
	if i < 0 {
		return Theme{}, false
	}
	return themes[i], true
}

// ApplyTheme applies a theme by name without overrides.
func ApplyTheme(name string) {
	ApplyThemeWithOverrides(name, nil)
}

// ApplyThemeWithOverrides applies a theme with color overrides from config.
// Overrides that are not hex colors or name no palette key are ignored.
func ApplyThemeWithOverrides(name string, overrides map[string]string) {
	theme := GetTheme(name)
	for key, value := range overrides {
		if f := theme.Colors.field(key); f != nil && IsValidHexColor(value) {
			*f = value
		}
	}
	ApplyThemeColors(theme)
	themeMu.Lock()
	current = theme
	themeMu.Unlock()
}

// ApplyThemeColors updates the color variables and rebuilds every style.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Accent = lipgloss.Color(c.Accent)
	Success = lipgloss.Color(c.Success)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextSubtle = lipgloss.Color(c.TextSubtle)
	TextSelectionColor = TextPrimary
	if c.TextSelection != "" {
		TextSelectionColor = lipgloss.Color(c.TextSelection)
	}

	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)

	BorderActive = lipgloss.Color(c.BorderActive)
	BorderMuted = lipgloss.Color(c.BorderMuted)

	rebuildStyles()
}
