package teaui

import "github.com/wilbur182/disclosure/internal/styles"

// thumb returns the first row and length of a scrollbar thumb for a list of
// total rows showing visible rows from offset, on a track of height rows.
// A list that fits has no thumb.
func thumb(total, offset, visible, height int) (pos, size int) {
	if height < 1 || total <= visible {
		return 0, 0
	}
	size = clamp(visible*height/total, 1, height)
	maxOffset := max(1, total-visible)
	pos = clamp(offset*(height-size)/maxOffset, 0, height-size)
	return pos, size
}

// scrollbar renders a one-column track, one entry per row.
func scrollbar(total, offset, visible, height int) []string {
	pos, size := thumb(total, offset, visible, height)
	rows := make([]string, height)
	for i := range rows {
		if i >= pos && i < pos+size {
			rows[i] = styles.ScrollbarThumb.Render("┃")
		} else {
			rows[i] = styles.ScrollbarTrack.Render("│")
		}
	}
	return rows
}
