// Package listnav tracks virtual focus, selection and typeahead for a
// composite list (menu items, select options, combobox suggestions).
//
// Real input focus never moves to items. The navigator only tracks which
// item is highlighted; the rendering layer styles it and wires it to the
// focused trigger or input.
package listnav

import (
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/wilbur182/disclosure/internal/controlled"
	"github.com/wilbur182/disclosure/internal/keymap"
	"github.com/wilbur182/disclosure/internal/timer"
)

// Change reasons reported to OnActiveIndexChange and OnSelect.
const (
	ReasonKeyboard     controlled.Reason = "keyboard"
	ReasonPointer      controlled.Reason = "pointer"
	ReasonTypeahead    controlled.Reason = "typeahead"
	ReasonDrag         controlled.Reason = "drag"
	ReasonItemsChanged controlled.Reason = "items-changed"
)

// Orientation selects which arrow keys move the highlight.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
	Both
)

// ParseOrientation maps config strings to an Orientation.
func ParseOrientation(s string) Orientation {
	switch s {
	case "horizontal":
		return Horizontal
	case "both":
		return Both
	}
	return Vertical
}

// Origin says what moved the highlight last.
type Origin int

const (
	OriginNone Origin = iota
	OriginKeyboard
	OriginPointer
)

func (o Origin) String() string {
	switch o {
	case OriginKeyboard:
		return "keyboard"
	case OriginPointer:
		return "pointer"
	}
	return "none"
}

// Options configures a Navigator.
type Options struct {
	Loop        bool
	Orientation Orientation
	// AllowEscape clears the highlight when arrowing past either end, so
	// focus appears to return to the input that owns the list.
	AllowEscape       bool
	TypeaheadTimeout  time.Duration
	PageSize          int
	Multiple          bool
	SelectOnTypeahead bool

	ActiveIndex         controlled.Prop[int]
	OnActiveIndexChange controlled.ChangeFunc[int]
	// OnSelect runs before a selection is applied and may cancel it.
	OnSelect func(index int, item Item, d *controlled.Details)

	Keymap *keymap.Registry
	Logger *slog.Logger
}

// Navigator is the list navigation state of one open list.
type Navigator struct {
	sched  timer.Scheduler
	opts   Options
	km     *keymap.Registry
	logger *slog.Logger

	items    []Item
	active   *controlled.Cell[int]
	origin   Origin
	selected []int

	buffer       string
	bufferTimer  timer.Handle
	anchor       int
	lastMatch    int
	dragging     bool
	dragCrossed  bool
	dragOverItem int
}

// New creates a navigator with no items and no highlight.
func New(sched timer.Scheduler, opts Options) *Navigator {
	if opts.TypeaheadTimeout <= 0 {
		opts.TypeaheadTimeout = 500 * time.Millisecond
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	n := &Navigator{
		sched:        sched,
		opts:         opts,
		km:           opts.Keymap,
		logger:       opts.Logger,
		anchor:       -1,
		lastMatch:    -1,
		dragOverItem: -1,
	}
	if n.km == nil {
		n.km = keymap.NewDefault(nil)
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	n.active = controlled.New(opts.ActiveIndex, -1, opts.OnActiveIndexChange,
		controlled.WithName("activeIndex"), controlled.WithLogger(n.logger))
	return n
}

// Items returns the current items.
func (n *Navigator) Items() []Item {
	return n.items
}

// Len returns the number of items.
func (n *Navigator) Len() int {
	return len(n.items)
}

// ActiveIndex returns the highlighted index, or -1. It is always a valid
// index into the current items.
func (n *Navigator) ActiveIndex() int {
	i := n.active.Get()
	if i < 0 || i >= len(n.items) {
		return -1
	}
	return i
}

// ActiveItem returns the highlighted item.
func (n *Navigator) ActiveItem() (Item, bool) {
	i := n.ActiveIndex()
	if i < 0 {
		return Item{}, false
	}
	return n.items[i], true
}

// HighlightOrigin reports whether the pointer or the keyboard moved the
// highlight last. Consumers skip scroll-into-view for pointer moves.
func (n *Navigator) HighlightOrigin() Origin {
	return n.origin
}

// SyncActiveIndex feeds the caller's controlled active index.
func (n *Navigator) SyncActiveIndex(prop controlled.Prop[int]) {
	n.active.Sync(prop)
}

// SetActive highlights index i programmatically. -1 clears.
func (n *Navigator) SetActive(i int, reason controlled.Reason) bool {
	if i >= len(n.items) || (i >= 0 && n.items[i].Disabled) {
		return false
	}
	if i < -1 {
		i = -1
	}
	return n.setActive(i, OriginNone, controlled.NewDetails(reason))
}

// HighlightFirst highlights the first enabled item, as when a list opens
// from the keyboard.
func (n *Navigator) HighlightFirst() {
	n.setActive(n.firstEnabled(0, 1), OriginKeyboard, controlled.NewDetails(ReasonKeyboard))
}

// HighlightLast highlights the last enabled item.
func (n *Navigator) HighlightLast() {
	n.setActive(n.firstEnabled(len(n.items)-1, -1), OriginKeyboard, controlled.NewDetails(ReasonKeyboard))
}

func (n *Navigator) setActive(i int, origin Origin, d *controlled.Details) bool {
	if i == n.ActiveIndex() {
		n.origin = origin
		return true
	}
	if !n.active.Set(i, d) {
		return false
	}
	n.origin = origin
	return true
}

// KeyDown handles a normalized key and reports whether the list used it.
func (n *Navigator) KeyDown(key string) bool {
	contexts := n.contexts()
	action := n.km.Resolve(key, contexts...)

	if keymap.IsPrintable(key) && !isNavigation(action) {
		if key != "space" || n.buffer != "" {
			return n.typeahead(key)
		}
	}

	d := controlled.NewDetails(ReasonKeyboard)
	d.Event = key
	switch action {
	case keymap.ActionNext:
		n.move(1, d)
	case keymap.ActionPrev:
		n.move(-1, d)
	case keymap.ActionFirst:
		n.setActive(n.firstEnabled(0, 1), OriginKeyboard, d)
	case keymap.ActionLast:
		n.setActive(n.firstEnabled(len(n.items)-1, -1), OriginKeyboard, d)
	case keymap.ActionPageDown:
		n.page(1, d)
	case keymap.ActionPageUp:
		n.page(-1, d)
	case keymap.ActionSelect:
		i := n.ActiveIndex()
		if i < 0 {
			return false
		}
		n.Select(i, d)
	default:
		return false
	}
	return true
}

func (n *Navigator) contexts() []string {
	switch n.opts.Orientation {
	case Horizontal:
		return []string{keymap.ContextListHorizontal}
	case Both:
		return []string{keymap.ContextListVertical, keymap.ContextListHorizontal}
	}
	return []string{keymap.ContextListVertical}
}

func isNavigation(a keymap.Action) bool {
	switch a {
	case keymap.ActionNext, keymap.ActionPrev, keymap.ActionFirst,
		keymap.ActionLast, keymap.ActionPageDown, keymap.ActionPageUp:
		return true
	}
	return false
}

// move steps the highlight by dir (+1/-1) over enabled items.
func (n *Navigator) move(dir int, d *controlled.Details) {
	cur := n.ActiveIndex()
	if cur < 0 {
		start := 0
		if dir < 0 {
			start = len(n.items) - 1
		}
		n.setActive(n.firstEnabled(start, dir), OriginKeyboard, d)
		return
	}

	next := n.firstEnabled(cur+dir, dir)
	if next >= 0 {
		n.setActive(next, OriginKeyboard, d)
		return
	}

	// Past the end
	switch {
	case n.opts.AllowEscape:
		n.setActive(-1, OriginKeyboard, d)
	case n.opts.Loop:
		start := 0
		if dir < 0 {
			start = len(n.items) - 1
		}
		n.setActive(n.firstEnabled(start, dir), OriginKeyboard, d)
	}
}

func (n *Navigator) page(dir int, d *controlled.Details) {
	if len(n.items) == 0 {
		return
	}
	cur := n.ActiveIndex()
	if cur < 0 {
		cur = 0
	}
	target := min(max(cur+dir*n.opts.PageSize, 0), len(n.items)-1)
	i := n.firstEnabled(target, dir)
	if i < 0 {
		i = n.firstEnabled(target, -dir)
	}
	if i >= 0 {
		n.setActive(i, OriginKeyboard, d)
	}
}

// firstEnabled returns the first enabled index from start stepping by dir,
// or -1.
func (n *Navigator) firstEnabled(start, dir int) int {
	for i := start; i >= 0 && i < len(n.items); i += dir {
		if !n.items[i].Disabled {
			return i
		}
	}
	return -1
}

// typeahead feeds one printable key into the buffer.
func (n *Navigator) typeahead(key string) bool {
	ch := string(keymap.Rune(key))

	if n.buffer == "" {
		n.anchor = n.ActiveIndex()
	} else if strings.EqualFold(n.buffer, ch) && n.cyclesRepeatedChar() {
		// Same character again: continue from the last match
		n.buffer = ""
		n.anchor = n.lastMatch
	}
	n.buffer += ch
	n.restartBufferTimer()

	match := n.search(n.buffer, n.anchor+1)
	if match < 0 {
		if ch != " " {
			n.clearBuffer()
		}
		return true
	}
	n.lastMatch = match

	d := controlled.NewDetails(ReasonTypeahead)
	d.Event = key
	n.setActive(match, OriginKeyboard, d)
	if n.opts.SelectOnTypeahead {
		n.Select(match, controlled.NewDetails(ReasonTypeahead))
	}
	return true
}

// cyclesRepeatedChar is false when a label starts with a doubled letter
// ("llama"), where a repeated key must extend the prefix instead.
func (n *Navigator) cyclesRepeatedChar() bool {
	for _, it := range n.items {
		r1, size := utf8.DecodeRuneInString(it.Label)
		r2, _ := utf8.DecodeRuneInString(it.Label[size:])
		if r2 != utf8.RuneError && unicode.ToLower(r1) == unicode.ToLower(r2) {
			return false
		}
	}
	return true
}

// search finds the first enabled item whose label has prefix, starting at
// from and wrapping.
func (n *Navigator) search(prefix string, from int) int {
	count := len(n.items)
	if count == 0 {
		return -1
	}
	prefix = strings.ToLower(prefix)
	from = ((from % count) + count) % count
	for k := 0; k < count; k++ {
		i := (from + k) % count
		it := n.items[i]
		if !it.Disabled && strings.HasPrefix(strings.ToLower(it.Label), prefix) {
			return i
		}
	}
	return -1
}

func (n *Navigator) restartBufferTimer() {
	timer.Stop(n.bufferTimer)
	n.bufferTimer = n.sched.AfterFunc(n.opts.TypeaheadTimeout, func() {
		n.bufferTimer = nil
		n.buffer = ""
	})
}

func (n *Navigator) clearBuffer() {
	timer.Stop(n.bufferTimer)
	n.bufferTimer = nil
	n.buffer = ""
}

// TypeaheadBuffer returns the characters typed so far.
func (n *Navigator) TypeaheadBuffer() string {
	return n.buffer
}

// ItemPointerMove highlights item i from pointer movement.
func (n *Navigator) ItemPointerMove(i int) {
	if i < 0 || i >= len(n.items) || n.items[i].Disabled {
		return
	}
	n.setActive(i, OriginPointer, controlled.NewDetails(ReasonPointer))
}

// PointerLeaveList clears a pointer-origin highlight.
func (n *Navigator) PointerLeaveList() {
	if n.origin != OriginPointer || n.dragging {
		return
	}
	n.setActive(-1, OriginPointer, controlled.NewDetails(ReasonPointer))
}

// BeginDrag starts a press-drag-release selection from the trigger.
func (n *Navigator) BeginDrag() {
	n.dragging = true
	n.dragCrossed = false
	n.dragOverItem = -1
}

// Dragging reports whether a drag selection is in progress.
func (n *Navigator) Dragging() bool {
	return n.dragging
}

// DragMove previews item i during a drag. -1 means the pointer is over no
// item.
func (n *Navigator) DragMove(i int) {
	if !n.dragging {
		return
	}
	if i < 0 || i >= len(n.items) || n.items[i].Disabled {
		n.dragOverItem = -1
		return
	}
	n.dragCrossed = true
	n.dragOverItem = i
	n.setActive(i, OriginPointer, controlled.NewDetails(ReasonDrag))
}

// EndDrag finishes a drag released over item i (-1 for none) and reports
// whether a selection was committed. Only a release over an item the drag
// crossed commits.
func (n *Navigator) EndDrag(i int) bool {
	if !n.dragging {
		return false
	}
	n.dragging = false
	over := n.dragOverItem
	n.dragOverItem = -1
	if !n.dragCrossed || i < 0 || i != over {
		return false
	}
	return n.Select(i, controlled.NewDetails(ReasonDrag))
}

// CancelDrag abandons a drag without committing.
func (n *Navigator) CancelDrag() {
	n.dragging = false
	n.dragCrossed = false
	n.dragOverItem = -1
}

// Select commits item i. In multiple mode it toggles membership. Returns
// false when i is invalid or disabled, or OnSelect canceled.
func (n *Navigator) Select(i int, d *controlled.Details) bool {
	if i < 0 || i >= len(n.items) || n.items[i].Disabled {
		return false
	}
	if d == nil {
		d = controlled.NewDetails(controlled.ReasonNone)
	}
	if n.opts.OnSelect != nil {
		n.opts.OnSelect(i, n.items[i], d)
	}
	if d.IsCanceled() {
		return false
	}
	if !n.opts.Multiple {
		n.selected = []int{i}
		return true
	}
	if pos := slices.Index(n.selected, i); pos >= 0 {
		n.selected = slices.Delete(n.selected, pos, pos+1)
	} else {
		n.selected = append(n.selected, i)
		slices.Sort(n.selected)
	}
	return true
}

// SelectedIndex returns the committed selection, or -1. In multiple mode it
// is the lowest selected index.
func (n *Navigator) SelectedIndex() int {
	if len(n.selected) == 0 {
		return -1
	}
	return n.selected[0]
}

// Selected returns every selected index in ascending order.
func (n *Navigator) Selected() []int {
	return slices.Clone(n.selected)
}

// SetSelected replaces the selection without calling OnSelect, e.g. when a
// controlled value changes.
func (n *Navigator) SetSelected(indexes ...int) {
	n.selected = n.selected[:0]
	for _, i := range indexes {
		if i >= 0 && i < len(n.items) && !slices.Contains(n.selected, i) {
			n.selected = append(n.selected, i)
		}
	}
	slices.Sort(n.selected)
	if !n.opts.Multiple && len(n.selected) > 1 {
		n.selected = n.selected[:1]
	}
}

// SetItems replaces the list. The highlight and selection follow their
// items by ID; anything that disappeared or became disabled is cleared.
func (n *Navigator) SetItems(items []Item) {
	prevActive := n.ActiveIndex()
	oldActive := ""
	if prevActive >= 0 {
		oldActive = n.items[prevActive].ID()
	}
	oldSelected := make([]string, 0, len(n.selected))
	for _, i := range n.selected {
		if i < len(n.items) {
			oldSelected = append(oldSelected, n.items[i].ID())
		}
	}

	n.items = items
	index := make(map[string]int, len(items))
	for i, it := range items {
		if _, dup := index[it.ID()]; !dup {
			index[it.ID()] = i
		}
	}

	if prevActive >= 0 {
		next := -1
		if i, ok := index[oldActive]; ok && !items[i].Disabled {
			next = i
		}
		if next != prevActive {
			n.logger.Debug("listnav: revalidate active index", "from", prevActive, "to", next)
			n.active.Set(next, controlled.NewDetails(ReasonItemsChanged))
		}
	}

	n.selected = n.selected[:0]
	for _, id := range oldSelected {
		if i, ok := index[id]; ok {
			n.selected = append(n.selected, i)
		}
	}
	slices.Sort(n.selected)

	n.lastMatch = -1
	n.anchor = -1
}

// Reset clears the highlight, typeahead and drag state, as when the popup
// closes. Selection is kept.
func (n *Navigator) Reset() {
	n.clearBuffer()
	n.CancelDrag()
	n.lastMatch = -1
	if n.ActiveIndex() >= 0 {
		n.active.Set(-1, controlled.NewDetails(controlled.ReasonNone))
	}
	n.origin = OriginNone
}

// Stop cancels the typeahead timer.
func (n *Navigator) Stop() {
	n.clearBuffer()
}
