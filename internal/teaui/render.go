package teaui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/wilbur182/disclosure/internal/mouse"
	"github.com/wilbur182/disclosure/internal/styles"
)

const (
	barRow     = 1
	inputWidth = 18
	minContent = 8
)

// layout measures every trigger and mounted surface, positions surfaces
// through their popup's positioner, and registers hit regions. Regions are
// added bottom-up so the topmost surface wins a hit test.
func (h *Host) layout() {
	hm := h.mouse.HitMap
	hm.Clear()

	x := 1
	for _, w := range h.widgets {
		for _, t := range w.triggers {
			width := h.triggerWidth(w, t)
			t.node.Rect = mouse.Rect{X: x, Y: barRow, W: width, H: 1}
			hm.Add("trigger:"+t.id, t.node.Rect, t.node)
			x += width + 1
		}
	}

	bounds := mouse.Rect{W: h.width, H: max(1, h.height-1)}
	for _, w := range h.stacked() {
		if !w.Popup.Mounted() {
			w.surface.Rect = mouse.Rect{}
			for _, n := range w.items {
				n.Rect = mouse.Rect{}
			}
			continue
		}
		style := styles.ForSurface(w.Popup.Attributes())
		contentW, lines := h.contentSize(w)
		w.surface.Rect.W = contentW + style.GetHorizontalFrameSize()
		if h.overflows(w) {
			w.surface.Rect.W++
		}
		w.surface.Rect.H = lines + style.GetVerticalFrameSize()
		w.Popup.Reposition(bounds)

		r := w.surface.Rect
		hm.Add("surface:"+w.Popup.ID(), r, w.surface)
		left := r.X + style.GetBorderLeftSize() + style.GetPaddingLeft()
		top := r.Y + style.GetBorderTopSize() + style.GetPaddingTop()
		for i, n := range w.items {
			row := i - w.offset
			if row < 0 || row >= h.maxVisible {
				n.Rect = mouse.Rect{}
				continue
			}
			n.Rect = mouse.Rect{X: left, Y: top + row, W: contentW, H: 1}
			hm.Add("item:"+n.ID, n.Rect, n)
		}
	}
}

// stacked orders widgets for drawing: surfaces that left the dismissal
// stack (closed or ending) first, then the stack from oldest to newest.
func (h *Host) stacked() []*Widget {
	ids := h.coord.IDs()
	out := slices.Clone(h.widgets)
	slices.SortStableFunc(out, func(a, b *Widget) int {
		return slices.Index(ids, a.Popup.ID()) - slices.Index(ids, b.Popup.ID())
	})
	return out
}

func (h *Host) triggerWidth(w *Widget, t *triggerView) int {
	if w.input != nil {
		return inputWidth + 2
	}
	return runewidth.StringWidth(t.label) + 2
}

// overflows reports whether w's list has more items than fit.
func (h *Host) overflows(w *Widget) bool {
	list := w.Popup.List()
	return list != nil && list.Len() > h.maxVisible
}

// contentSize returns the inner width and line count of w's surface.
func (h *Host) contentSize(w *Widget) (int, int) {
	width := minContent
	lines := 1
	if list := w.Popup.List(); list != nil {
		for _, it := range list.Items() {
			// selection mark + item padding
			width = max(width, runewidth.StringWidth(it.Label)+4)
		}
		lines = max(1, min(list.Len(), h.maxVisible))
	} else {
		body := strings.Split(w.Body, "\n")
		for _, line := range body {
			width = max(width, runewidth.StringWidth(line))
		}
		lines = len(body)
	}
	return min(width, max(minContent, h.width-4)), lines
}

// View implements tea.Model.
func (h *Host) View() string {
	if h.quitting {
		return ""
	}
	lines := make([]string, max(h.height, barRow+2))
	lines[0] = styles.Title.Render(h.title)
	lines[barRow] = h.renderBar()
	lines[len(lines)-1] = styles.Status.Render(ansi.Truncate(h.statusLine(), h.width, "…"))
	view := strings.Join(lines, "\n")

	for _, w := range h.stacked() {
		if !w.Popup.Mounted() {
			continue
		}
		view = overlay(view, h.renderSurface(w), w.surface.Rect.X, w.surface.Rect.Y)
	}
	return view
}

func (h *Host) renderBar() string {
	var sb strings.Builder
	sb.WriteString(" ")
	active := h.doc.ActiveElement()
	for _, w := range h.widgets {
		for _, t := range w.triggers {
			style := styles.ForTrigger(w.Popup.TriggerAttributes(t.id), active == t.node)
			if w.input != nil {
				sb.WriteString(style.Width(inputWidth + 2).Render(ansi.Truncate(w.input.View(), inputWidth, "")))
			} else {
				sb.WriteString(style.Render(t.label))
			}
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

func (h *Host) renderSurface(w *Widget) string {
	style := styles.ForSurface(w.Popup.Attributes())
	contentW, _ := h.contentSize(w)

	var rows []string
	if list := w.Popup.List(); list != nil {
		items := list.Items()
		if len(items) == 0 {
			rows = append(rows, styles.Muted.Width(contentW).Render("(no items)"))
		}
		selected := list.Selected()
		end := min(len(items), w.offset+h.maxVisible)
		for i := w.offset; i < end; i++ {
			mark := "  "
			if slices.Contains(selected, i) {
				mark = styles.ItemSelectedMark.Render("✓ ")
			}
			label := ansi.Truncate(items[i].Label, contentW-4, "…")
			rows = append(rows, styles.ForItem(w.Popup.ItemAttributes(i)).Width(contentW).Render(mark+label))
		}
		if h.overflows(w) {
			for i, bar := range scrollbar(len(items), w.offset, h.maxVisible, len(rows)) {
				rows[i] += bar
			}
		}
	} else {
		for _, line := range strings.Split(w.Body, "\n") {
			rows = append(rows, lipgloss.NewStyle().Width(contentW).Render(ansi.Truncate(line, contentW, "…")))
		}
	}
	return style.Render(strings.Join(rows, "\n"))
}

func (h *Host) statusLine() string {
	w, _ := h.widgetFor(h.doc.ActiveElement())
	if w == nil {
		return h.status
	}
	s := w.Popup.State()
	line := fmt.Sprintf("%s open=%v phase=%s trigger=%q payload=%v active=%d",
		w.Popup.Kind(), s.Open, s.Phase, s.TriggerID, s.Payload, s.ActiveIndex)
	if h.status != "" {
		line += "  " + h.status
	}
	return line
}

// overlay draws box over base with its top-left corner at x, y.
func overlay(base, box string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(box, "\n") {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		bl := baseLines[row]
		left := ansi.Truncate(bl, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(bl, x+ansi.StringWidth(line), "")
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}
