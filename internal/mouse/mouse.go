package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Point is a cell position.
type Point struct {
	X, Y int
}

// Rect represents a rectangular region.
type Rect struct {
	X, Y, W, H int
}

// Contains returns true if the point (x, y) is within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ContainsPoint is Contains for a Point.
func (r Rect) ContainsPoint(p Point) bool {
	return r.Contains(p.X, p.Y)
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Union returns the smallest rect covering r and o. Empty rects are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Distance returns the Manhattan distance in cells from p to the nearest
// cell of r; zero when p is inside.
func (r Rect) Distance(p Point) int {
	dx, dy := 0, 0
	switch {
	case p.X < r.X:
		dx = r.X - p.X
	case p.X >= r.X+r.W:
		dx = p.X - (r.X + r.W - 1)
	}
	switch {
	case p.Y < r.Y:
		dy = r.Y - p.Y
	case p.Y >= r.Y+r.H:
		dy = p.Y - (r.Y + r.H - 1)
	}
	return dx + dy
}

// Region is a named rectangular hit region with associated data.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap tracks hit regions for mouse click detection.
type HitMap struct {
	regions []Region
}

// NewHitMap creates a new empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{
		regions: make([]Region, 0, 32),
	}
}

// Clear removes all regions from the hit map.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Add adds a new region to the hit map.
func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{
		ID:   id,
		Rect: rect,
		Data: data,
	})
}

// AddRect adds a region using individual coordinates.
func (h *HitMap) AddRect(id string, x, y, w, height int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: height}, data)
}

// Test returns the first region containing the point, or nil if none.
func (h *HitMap) Test(x, y int) *Region {
	// Test in reverse order so later (topmost) regions take priority
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Regions returns a copy of all registered regions (for testing).
func (h *HitMap) Regions() []Region {
	return append([]Region(nil), h.regions...)
}

// doubleClickWindow is the max gap between presses on one region that
// counts as a double click.
const doubleClickWindow = 400 * time.Millisecond

// Handler combines a HitMap with press tracking. It remembers where the
// current press started so a release can be matched to its press, which is
// what outside-dismissal and drag-select need.
type Handler struct {
	HitMap *HitMap

	// Click tracking for double-click detection
	lastClickTime   time.Time
	lastClickRegion string

	// Press tracking
	pressed     bool
	pressButton tea.MouseButton
	pressAt     Point
	pressRegion string

	now func() time.Time
}

// NewHandler creates a new mouse handler.
func NewHandler() *Handler {
	return &Handler{
		HitMap: NewHitMap(),
		now:    time.Now,
	}
}

// IsPressed reports whether a button is held.
func (h *Handler) IsPressed() bool {
	return h.pressed
}

// PressRegion returns the region ID the current press started on.
func (h *Handler) PressRegion() string {
	return h.pressRegion
}

// PressPoint returns where the current press started.
func (h *Handler) PressPoint() Point {
	return h.pressAt
}

// Clear resets the handler state and clears the hit map.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleMouse translates a tea.MouseMsg into a pointer action.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	p := Point{X: msg.X, Y: msg.Y}
	region := h.HitMap.Test(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft, tea.MouseButtonRight:
			return h.press(msg.Button, p, region)
		case tea.MouseButtonWheelUp:
			return MouseAction{Type: ActionScrollUp, Region: region, X: p.X, Y: p.Y, Delta: -3}
		case tea.MouseButtonWheelDown:
			return MouseAction{Type: ActionScrollDown, Region: region, X: p.X, Y: p.Y, Delta: 3}
		}

	case tea.MouseActionRelease:
		if !h.pressed {
			return MouseAction{Type: ActionNone}
		}
		action := MouseAction{
			Type:        ActionRelease,
			Region:      region,
			X:           p.X,
			Y:           p.Y,
			Button:      h.pressButton,
			PressRegion: h.pressRegion,
			DragDX:      p.X - h.pressAt.X,
			DragDY:      p.Y - h.pressAt.Y,
		}
		h.pressed = false
		h.pressRegion = ""
		return action

	case tea.MouseActionMotion:
		t := ActionHover
		if h.pressed {
			t = ActionDrag
		}
		return MouseAction{
			Type:        t,
			Region:      region,
			X:           p.X,
			Y:           p.Y,
			PressRegion: h.pressRegion,
			DragDX:      p.X - h.pressAt.X,
			DragDY:      p.Y - h.pressAt.Y,
		}
	}

	return MouseAction{Type: ActionNone}
}

func (h *Handler) press(button tea.MouseButton, p Point, region *Region) MouseAction {
	h.pressed = true
	h.pressButton = button
	h.pressAt = p
	h.pressRegion = ""
	if region != nil {
		h.pressRegion = region.ID
	}

	action := MouseAction{Type: ActionPress, Region: region, X: p.X, Y: p.Y, Button: button}
	if button == tea.MouseButtonRight {
		action.Type = ActionContextMenu
		return action
	}

	if region != nil {
		now := h.now()
		if region.ID == h.lastClickRegion && now.Sub(h.lastClickTime) < doubleClickWindow {
			action.IsDoubleClick = true
			// Reset to prevent triple-click counting as double
			h.lastClickRegion = ""
			h.lastClickTime = time.Time{}
		} else {
			h.lastClickRegion = region.ID
			h.lastClickTime = now
		}
	}
	return action
}

// ActionType represents the type of mouse action detected.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionPress
	ActionRelease
	ActionContextMenu // right press
	ActionScrollUp
	ActionScrollDown
	ActionDrag  // motion with a button held
	ActionHover // motion with no button held
)

// MouseAction represents a processed mouse event.
type MouseAction struct {
	Type          ActionType
	Region        *Region
	X, Y          int
	Button        tea.MouseButton
	IsDoubleClick bool
	PressRegion   string // region the press started on (release/drag)
	Delta         int    // Scroll delta
	DragDX        int    // Movement since press
	DragDY        int
}

// Point returns the action position.
func (a MouseAction) Point() Point {
	return Point{X: a.X, Y: a.Y}
}
