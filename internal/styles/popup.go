package styles

import "github.com/charmbracelet/lipgloss"

// Color variables, set by ApplyThemeColors.
var (
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color

	TextPrimary        lipgloss.Color
	TextSecondary      lipgloss.Color
	TextMuted          lipgloss.Color
	TextSubtle         lipgloss.Color
	TextSelectionColor lipgloss.Color

	BgSecondary lipgloss.Color
	BgTertiary  lipgloss.Color

	BorderActive lipgloss.Color
	BorderMuted  lipgloss.Color
)

// Popup styles, rebuilt whenever the theme changes.
var (
	// Surfaces
	Surface        lipgloss.Style
	SurfaceModal   lipgloss.Style
	SurfaceEnding  lipgloss.Style
	SurfaceTooltip lipgloss.Style

	// Triggers
	Trigger         lipgloss.Style
	TriggerOpen     lipgloss.Style
	TriggerFocused  lipgloss.Style
	TriggerDisabled lipgloss.Style

	// List items
	Item                   lipgloss.Style
	ItemHighlighted        lipgloss.Style
	ItemHighlightedPointer lipgloss.Style
	ItemSelectedMark       lipgloss.Style
	ItemDisabled           lipgloss.Style

	// Text
	Title   lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	KeyHint lipgloss.Style
	Status  lipgloss.Style

	// Scrollbar
	ScrollbarTrack lipgloss.Style
	ScrollbarThumb lipgloss.Style
)

func init() {
	ApplyThemeColors(DefaultTheme)
}

func rebuildStyles() {
	Surface = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Background(BgSecondary).
		Foreground(TextPrimary).
		Padding(0, 1)

	SurfaceModal = Surface.
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Primary)

	// Ending surfaces are drawn dimmed until the exit completes
	SurfaceEnding = Surface.
		BorderForeground(BorderMuted).
		Foreground(TextMuted)

	SurfaceTooltip = lipgloss.NewStyle().
		Background(BgTertiary).
		Foreground(TextPrimary).
		Padding(0, 1)

	Trigger = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary).
		Padding(0, 1)

	TriggerOpen = Trigger.
		Background(Primary).
		Bold(true)

	TriggerFocused = Trigger.
		Underline(true).
		Foreground(Accent)

	TriggerDisabled = Trigger.
		Foreground(TextSubtle).
		Background(BgSecondary)

	Item = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	ItemHighlighted = Item.
		Background(BgTertiary).
		Foreground(TextSelectionColor).
		Bold(true)

	ItemHighlightedPointer = Item.
		Background(BgTertiary).
		Foreground(TextSelectionColor)

	ItemSelectedMark = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	ItemDisabled = Item.
		Foreground(TextSubtle)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Status = lipgloss.NewStyle().
		Foreground(TextSecondary)

	ScrollbarTrack = lipgloss.NewStyle().
		Foreground(BorderMuted)

	ScrollbarThumb = lipgloss.NewStyle().
		Foreground(TextMuted)
}

func has(attrs map[string]string, key string) bool {
	_, ok := attrs[key]
	return ok
}

// ForSurface picks the surface style from a popup's presentation flags.
func ForSurface(attrs map[string]string) lipgloss.Style {
	switch {
	case has(attrs, "data-ending-style"):
		return SurfaceEnding
	case attrs["role"] == "tooltip":
		return SurfaceTooltip
	case attrs["aria-modal"] == "true":
		return SurfaceModal
	}
	return Surface
}

// ForTrigger picks a trigger style from its flags and whether it holds
// focus.
func ForTrigger(attrs map[string]string, focused bool) lipgloss.Style {
	switch {
	case has(attrs, "data-disabled"):
		return TriggerDisabled
	case has(attrs, "data-popup-open"):
		return TriggerOpen
	case focused:
		return TriggerFocused
	}
	return Trigger
}

// ForItem picks a list item style from its flags.
func ForItem(attrs map[string]string) lipgloss.Style {
	switch {
	case has(attrs, "data-disabled"):
		return ItemDisabled
	case has(attrs, "data-highlighted") && attrs["data-highlight-origin"] == "pointer":
		return ItemHighlightedPointer
	case has(attrs, "data-highlighted"):
		return ItemHighlighted
	}
	return Item
}
