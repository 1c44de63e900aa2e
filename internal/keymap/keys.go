package keymap

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Normalize converts a tea.KeyMsg to the key names bindings use.
func Normalize(key tea.KeyMsg) string {
	switch key.Type {
	case tea.KeyCtrlC:
		return "ctrl+c"
	case tea.KeyCtrlA:
		return "ctrl+a"
	case tea.KeyCtrlE:
		return "ctrl+e"
	case tea.KeyCtrlN:
		return "ctrl+n"
	case tea.KeyCtrlP:
		return "ctrl+p"
	case tea.KeyCtrlU:
		return "ctrl+u"
	case tea.KeyCtrlD:
		return "ctrl+d"
	case tea.KeyTab:
		return "tab"
	case tea.KeyShiftTab:
		return "shift+tab"
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeySpace:
		return "space"
	case tea.KeyBackspace:
		return "backspace"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyHome:
		return "home"
	case tea.KeyEnd:
		return "end"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	case tea.KeyDelete:
		return "delete"
	case tea.KeyRunes:
		if key.Alt {
			return "alt+" + string(key.Runes)
		}
		if len(key.Runes) == 1 && key.Runes[0] == ' ' {
			return "space"
		}
		return string(key.Runes)
	default:
		return key.String()
	}
}

// IsPrintable reports whether key is a single printable character that can
// feed typeahead. "space" counts; the list decides whether it continues a
// typeahead buffer or selects.
func IsPrintable(key string) bool {
	if key == "space" {
		return true
	}
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return r >= ' ' && r != 0x7f
}

// Rune returns the character a printable key types.
func Rune(key string) rune {
	if key == "space" {
		return ' '
	}
	r, _ := utf8.DecodeRuneInString(key)
	return r
}
