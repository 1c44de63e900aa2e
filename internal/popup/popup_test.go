package popup

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/wilbur182/disclosure/internal/anchor"
	"github.com/wilbur182/disclosure/internal/controlled"
	"github.com/wilbur182/disclosure/internal/dismiss"
	"github.com/wilbur182/disclosure/internal/focus"
	"github.com/wilbur182/disclosure/internal/forms"
	"github.com/wilbur182/disclosure/internal/hoverintent"
	"github.com/wilbur182/disclosure/internal/listnav"
	"github.com/wilbur182/disclosure/internal/mouse"
	"github.com/wilbur182/disclosure/internal/node"
	"github.com/wilbur182/disclosure/internal/timer"
	"github.com/wilbur182/disclosure/internal/transition"
)

type harness struct {
	sched   *timer.Manual
	doc     *node.Document
	coord   *dismiss.Coordinator
	outside *node.Node
}

func newHarness() *harness {
	h := &harness{sched: timer.NewManual(), doc: node.NewDocument()}
	h.coord = dismiss.New(nil)
	h.outside = h.doc.Root().Append(&node.Node{ID: "outside", Kind: node.KindButton, Focusable: true})
	return h
}

func (h *harness) opts(o Options) Options {
	o.Scheduler = h.sched
	o.Doc = h.doc
	o.Dismiss = h.coord
	return o
}

func (h *harness) button(id string) *node.Node {
	return h.doc.Root().Append(&node.Node{ID: id, Kind: node.KindButton, Focusable: true})
}

func (h *harness) surface(id string, children ...string) *node.Node {
	s := h.doc.Root().Append(&node.Node{ID: id})
	for _, c := range children {
		s.Append(&node.Node{ID: c, Kind: node.KindButton, Focusable: true})
	}
	return s
}

func (h *harness) press(target *node.Node) dismiss.Resolution {
	h.coord.PointerDown(target)
	return h.coord.PointerUp(target)
}

func TestSharedTriggersPayloadAndFinalFocus(t *testing.T) {
	h := newHarness()
	a, b := h.button("a"), h.button("b")
	p := New(Popover, h.opts(Options{}))
	p.AddTrigger("a", a, 1)
	p.AddTrigger("b", b, 2)
	p.SetSurface(h.surface("popover", "close"))

	h.doc.Focus(a)
	p.Trigger("a").Press(focus.InteractionPointer)
	if s := p.State(); !s.Open || s.TriggerID != "a" || s.Payload != 1 {
		t.Fatalf("after opening via a: %+v", s)
	}
	p.Trigger("a").Press(focus.InteractionPointer)
	h.sched.Advance(time.Second)
	if p.Mounted() {
		t.Fatal("still mounted after closing")
	}

	h.doc.Focus(b)
	p.Trigger("b").Press(focus.InteractionPointer)
	if s := p.State(); s.TriggerID != "b" || s.Payload != 2 {
		t.Fatalf("after opening via b: trigger = %q payload = %v, want b 2", s.TriggerID, s.Payload)
	}
	if got := h.doc.ActiveElement(); got == nil || got.ID != "close" {
		t.Errorf("initial focus on %v, want close", got)
	}

	if !p.KeyDown("esc") {
		t.Fatal("escape not handled")
	}
	if got := h.doc.ActiveElement(); got != b {
		t.Errorf("final focus on %v, want b", got)
	}
}

func TestPressOnOtherTriggerSwitchesWithoutClosing(t *testing.T) {
	h := newHarness()
	a, b := h.button("a"), h.button("b")
	p := New(Popover, h.opts(Options{}))
	p.AddTrigger("a", a, "first")
	p.AddTrigger("b", b, "second")
	p.SetSurface(h.surface("popover"))

	p.Trigger("a").Press(focus.InteractionPointer)
	if res := h.press(b); len(res.Dismissed) != 0 {
		t.Fatalf("press on sibling trigger dismissed %v", res.Dismissed)
	}
	p.Trigger("b").Press(focus.InteractionPointer)
	if s := p.State(); !s.Open || s.TriggerID != "b" || s.Payload != "second" {
		t.Errorf("state = %+v, want open via b", s)
	}
}

func newSelect(h *harness, field *forms.State, onSelect func(int, listnav.Item, *controlled.Details)) *Popup {
	p := New(Select, h.opts(Options{
		Items: listnav.Labels("alpha", "beta", "gamma"),
		Field: field,
		List:  listnav.Options{OnSelect: onSelect},
	}))
	p.AddTrigger("trigger", h.button("trigger"), nil)
	p.SetSurface(h.surface("listbox"))
	return p
}

func TestDragSelectCommitsBetaOnce(t *testing.T) {
	h := newHarness()
	field := forms.NewState("fruit", nil, nil)
	var picked []string
	p := newSelect(h, field, func(_ int, it listnav.Item, _ *controlled.Details) {
		picked = append(picked, it.Label)
	})

	trig := p.Trigger("trigger")
	trig.PointerDown()
	if !p.Open() || !p.State().Dragging {
		t.Fatalf("press on trigger: open = %v dragging = %v", p.Open(), p.State().Dragging)
	}
	p.ItemPointerMove(0)
	p.ItemPointerMove(1)
	if got := p.State().ActiveIndex; got != 1 {
		t.Errorf("preview active = %d, want 1", got)
	}
	if !p.ItemPointerUp(1) {
		t.Fatal("release over beta did not commit")
	}

	if want := []string{"beta"}; !reflect.DeepEqual(picked, want) {
		t.Errorf("picked = %v, want %v", picked, want)
	}
	if field.Commits() != 1 || field.Value() != "beta" {
		t.Errorf("field commits = %d value = %v, want 1 beta", field.Commits(), field.Value())
	}
	if p.Open() {
		t.Error("select still open after committing")
	}
}

func TestDragReleasedOutsideCommitsNothing(t *testing.T) {
	h := newHarness()
	field := forms.NewState("fruit", nil, nil)
	p := newSelect(h, field, nil)

	p.Trigger("trigger").PointerDown()
	p.ItemPointerMove(1)
	p.ItemPointerMove(-1)
	if p.ItemPointerUp(-1) {
		t.Error("release outside items committed")
	}
	if field.Commits() != 0 {
		t.Errorf("field commits = %d, want 0", field.Commits())
	}
	if !p.Open() {
		t.Error("select closed by a release outside its items")
	}
}

func TestPressOpenedOnPointerDownIsNotToggledClosed(t *testing.T) {
	h := newHarness()
	p := New(Menu, h.opts(Options{Items: listnav.Labels("cut", "copy")}))
	trig := p.AddTrigger("t", h.button("t"), nil)
	p.SetSurface(h.surface("menu"))

	trig.PointerDown()
	trig.Press(focus.InteractionPointer)
	if !p.Open() {
		t.Fatal("click that opened the menu also closed it")
	}
	trig.PointerDown()
	trig.Press(focus.InteractionPointer)
	if p.Open() {
		t.Error("second click did not close the menu")
	}
}

func TestControlledOpenIsNotMutatedByInteraction(t *testing.T) {
	h := newHarness()
	var requested []bool
	p := New(Popover, h.opts(Options{
		Open:         controlled.Some(false),
		OnOpenChange: func(next bool, _ *controlled.Details) { requested = append(requested, next) },
	}))
	trig := p.AddTrigger("t", h.button("t"), "payload")
	p.SetSurface(h.surface("popover"))

	trig.Press(focus.InteractionPointer)
	if want := []bool{true}; !reflect.DeepEqual(requested, want) {
		t.Fatalf("requested = %v, want %v", requested, want)
	}
	if s := p.State(); s.Open || s.Mounted {
		t.Fatalf("controlled popup changed itself: %+v", s)
	}

	p.Sync(Options{Open: controlled.Some(true)})
	if s := p.State(); !s.Open || !s.Mounted || s.TriggerID != "t" || s.Payload != "payload" {
		t.Errorf("after sync: %+v", s)
	}
}

func TestOpenChangeCanBeCanceled(t *testing.T) {
	h := newHarness()
	p := New(Popover, h.opts(Options{
		OnOpenChange: func(next bool, d *controlled.Details) {
			if d.Reason == ReasonOutsidePress {
				d.Cancel()
			}
		},
	}))
	p.AddTrigger("t", h.button("t"), nil)
	p.SetSurface(h.surface("popover"))

	p.Trigger("t").Press(focus.InteractionPointer)
	h.press(h.outside)
	if !p.Open() {
		t.Error("canceled outside press closed the popup")
	}
}

func TestTooltipHoverDelay(t *testing.T) {
	h := newHarness()
	opens := 0
	p := New(Tooltip, h.opts(Options{
		Hover: &hoverintent.Config{OpenDelay: 300 * time.Millisecond},
		OnOpenChange: func(next bool, _ *controlled.Details) {
			if next {
				opens++
			}
		},
	}))
	trig := p.AddTrigger("t", h.button("t"), nil)

	trig.PointerEnter(mouse.Point{})
	h.sched.Advance(200 * time.Millisecond)
	trig.PointerLeave(mouse.Point{Y: 5})
	h.sched.Advance(time.Second)
	if opens != 0 {
		t.Fatalf("opens after brief hover = %d, want 0", opens)
	}

	trig.PointerEnter(mouse.Point{})
	h.sched.Advance(300 * time.Millisecond)
	h.sched.Advance(time.Second)
	if opens != 1 || !p.Open() {
		t.Errorf("opens after holding = %d open = %v, want 1 true", opens, p.Open())
	}

	trig.PointerDown()
	if p.Open() {
		t.Error("pressing the trigger did not close the tooltip")
	}
}

func TestPatientClickKeepsHoverOpenPopover(t *testing.T) {
	h := newHarness()
	p := New(Popover, h.opts(Options{
		OpenOnHover: true,
		Hover:       &hoverintent.Config{OpenDelay: 100 * time.Millisecond},
	}))
	trig := p.AddTrigger("t", h.button("t"), nil)
	p.SetSurface(h.surface("popover"))

	trig.PointerEnter(mouse.Point{})
	h.sched.Advance(100 * time.Millisecond)
	if !p.Open() {
		t.Fatal("hover did not open")
	}
	h.sched.Advance(200 * time.Millisecond)
	trig.PointerDown()
	trig.Press(focus.InteractionPointer)
	if !p.Open() {
		t.Fatal("press right after hover open closed the popover")
	}
	trig.PointerLeave(mouse.Point{Y: 9})
	if !p.Open() {
		t.Error("popover converted to a press open closed on leave")
	}
	trig.Press(focus.InteractionPointer)
	if p.Open() {
		t.Error("second press did not close")
	}
}

func TestNestedMenusDismissal(t *testing.T) {
	h := newHarness()
	parent := New(Menu, h.opts(Options{ID: "menu", Items: listnav.Labels("share")}))
	parent.AddTrigger("t", h.button("menu-trigger"), nil)
	parentSurface := h.surface("menu", "share")
	parent.SetSurface(parentSurface)

	child := New(Menu, h.opts(Options{ID: "submenu", ParentID: "menu", Items: listnav.Labels("mail", "chat")}))
	child.AddTrigger("share", parentSurface.Children()[0], nil)
	childSurface := h.surface("submenu", "mail")
	child.SetSurface(childSurface)

	parent.SetOpen(true, ReasonImperative, "t", nil)
	child.SetOpen(true, ReasonImperative, "share", nil)

	h.press(childSurface.Children()[0])
	if !parent.Open() || !child.Open() {
		t.Fatalf("press inside submenu: parent open = %v child open = %v", parent.Open(), child.Open())
	}

	if !child.KeyDown("esc") {
		t.Fatal("escape not handled")
	}
	if child.Open() || !parent.Open() {
		t.Fatalf("escape: parent open = %v child open = %v, want true false", parent.Open(), child.Open())
	}

	child.SetOpen(true, ReasonImperative, "share", nil)
	res := h.press(h.outside)
	if want := []string{"submenu", "menu"}; !reflect.DeepEqual(res.Dismissed, want) {
		t.Errorf("dismissed = %v, want %v", res.Dismissed, want)
	}
	if parent.Open() || child.Open() {
		t.Error("outside press left a menu open")
	}
}

// newMenuTree builds a hover menu with a submenu opened from its "share" item.
func newMenuTree(h *harness, childOpts Options) (parent, child *Popup, trig *Trigger) {
	parent = New(Menu, h.opts(Options{
		ID:          "menu",
		Items:       listnav.Labels("share"),
		OpenOnHover: true,
		Hover:       &hoverintent.Config{OpenDelay: 100 * time.Millisecond},
	}))
	trig = parent.AddTrigger("t", h.button("menu-trigger"), nil)
	parentSurface := h.surface("menu", "share")
	parent.SetSurface(parentSurface)

	childOpts.ID = "submenu"
	childOpts.ParentID = "menu"
	childOpts.Items = listnav.Labels("mail", "chat")
	child = New(Menu, h.opts(childOpts))
	child.AddTrigger("share", parentSurface.Children()[0], nil)
	child.SetSurface(h.surface("submenu", "mail"))
	return parent, child, trig
}

func TestHoverMenuStaysOpenWhilePointerIsInSubmenu(t *testing.T) {
	h := newHarness()
	parent, child, trig := newMenuTree(h, Options{})

	trig.PointerEnter(mouse.Point{})
	h.sched.Advance(100 * time.Millisecond)
	if !parent.Open() {
		t.Fatal("hover did not open the menu")
	}
	parent.SurfacePointerEnter()
	trig.PointerLeave(mouse.Point{X: 5, Y: 1})
	child.SetOpen(true, ReasonImperative, "share", nil)

	parent.SurfacePointerLeave(mouse.Point{X: 12, Y: 1})
	child.SurfacePointerEnter()
	h.sched.Advance(time.Second)
	if !parent.Open() || !child.Open() {
		t.Fatalf("pointer in submenu: parent open = %v child open = %v, want both open", parent.Open(), child.Open())
	}

	child.SetOpen(false, ReasonImperative, "", nil)
	h.sched.Advance(time.Second)
	if parent.Open() || parent.Mounted() {
		t.Errorf("submenu closed with the pointer outside: parent open = %v mounted = %v", parent.Open(), parent.Mounted())
	}
}

func TestHoverMenuKeptWhenPointerReturnsFromSubmenu(t *testing.T) {
	h := newHarness()
	parent, child, trig := newMenuTree(h, Options{})

	trig.PointerEnter(mouse.Point{})
	h.sched.Advance(100 * time.Millisecond)
	parent.SurfacePointerEnter()
	trig.PointerLeave(mouse.Point{X: 5, Y: 1})
	child.SetOpen(true, ReasonImperative, "share", nil)
	parent.SurfacePointerLeave(mouse.Point{X: 12, Y: 1})
	h.sched.Advance(time.Second)

	parent.SurfacePointerEnter()
	child.SetOpen(false, ReasonImperative, "", nil)
	h.sched.Advance(time.Second)
	if !parent.Open() {
		t.Fatal("menu closed although the pointer came back to it")
	}

	parent.SurfacePointerLeave(mouse.Point{X: 40, Y: 20})
	if parent.Open() {
		t.Error("leaving the menu after the submenu closed did not close it")
	}
}

func TestClosingParentClosesSubmenu(t *testing.T) {
	tests := []struct {
		name       string
		close      func(parent *Popup)
		parentOpen bool
	}{
		{"imperative", func(p *Popup) { p.SetOpen(false, ReasonImperative, "", nil) }, false},
		{"disabled", func(p *Popup) { p.SetDisabled(true) }, false},
		{"item select", func(p *Popup) { p.KeyDown("home"); p.KeyDown("enter") }, false},
		{"disposed", func(p *Popup) { p.Dispose() }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			var reasons []controlled.Reason
			parent, child, _ := newMenuTree(h, Options{
				OnOpenChange: func(next bool, d *controlled.Details) {
					if !next {
						reasons = append(reasons, d.Reason)
					}
				},
			})
			parent.SetOpen(true, ReasonImperative, "t", nil)
			child.SetOpen(true, ReasonImperative, "share", nil)

			tt.close(parent)
			h.sched.Advance(time.Second)

			if parent.Open() != tt.parentOpen || child.Open() {
				t.Errorf("parent open = %v child open = %v, want %v false", parent.Open(), child.Open(), tt.parentOpen)
			}
			if child.Mounted() {
				t.Error("submenu still mounted")
			}
			if h.coord.Len() != 0 {
				t.Errorf("stack = %v, want empty", h.coord.IDs())
			}
			if want := []controlled.Reason{ReasonParentClose}; !reflect.DeepEqual(reasons, want) {
				t.Errorf("submenu close reasons = %v, want %v", reasons, want)
			}
		})
	}
}

func TestSubmenuClosesOnLeftArrow(t *testing.T) {
	h := newHarness()
	child := New(Menu, h.opts(Options{ID: "submenu", ParentID: "menu", Items: listnav.Labels("a")}))
	child.AddTrigger("t", h.button("t"), nil)
	child.SetOpen(true, ReasonImperative, "t", nil)
	if !child.KeyDown("left") || child.Open() {
		t.Errorf("left arrow: open = %v, want closed", child.Open())
	}
}

func TestKeyboardOpenHighlightsEnds(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"down", 0},
		{"enter", 0},
		{"up", 2},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			h := newHarness()
			p := New(Menu, h.opts(Options{Items: listnav.Labels("a", "b", "c")}))
			trig := p.AddTrigger("t", h.button("t"), nil)
			p.SetSurface(h.surface("menu"))
			if !trig.KeyDown(tt.key) {
				t.Fatalf("KeyDown(%q) not handled", tt.key)
			}
			if got := p.State().ActiveIndex; got != tt.want {
				t.Errorf("active = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMenuKeyboardSelectCloses(t *testing.T) {
	h := newHarness()
	var picked string
	p := New(Menu, h.opts(Options{
		Items: listnav.Labels("cut", "copy", "paste"),
		List: listnav.Options{OnSelect: func(_ int, it listnav.Item, _ *controlled.Details) {
			picked = it.Label
		}},
	}))
	trig := p.AddTrigger("t", h.button("t"), nil)
	p.SetSurface(h.surface("menu"))

	trig.KeyDown("down")
	p.KeyDown("down")
	p.KeyDown("enter")
	if picked != "copy" || p.Open() {
		t.Errorf("picked = %q open = %v, want copy and closed", picked, p.Open())
	}
	if h.doc.ActiveElement() != trig.Node {
		t.Errorf("focus on %v, want trigger", h.doc.ActiveElement())
	}
}

func TestSelectHighlightsSelectedOnOpen(t *testing.T) {
	h := newHarness()
	field := forms.NewState("fruit", "gamma", nil)
	p := newSelect(h, field, nil)
	p.Trigger("trigger").KeyDown("enter")
	if got := p.State().ActiveIndex; got != 2 {
		t.Errorf("active = %d, want 2 (selected)", got)
	}
	if _, ok := p.ItemAttributes(2)["data-selected"]; !ok {
		t.Error("selected item missing data-selected")
	}
}

func TestComboboxKeepsFocusOnInput(t *testing.T) {
	h := newHarness()
	input := h.doc.Root().Append(&node.Node{ID: "input", Kind: node.KindTextInput, Focusable: true})
	p := New(Combobox, h.opts(Options{Items: listnav.Labels("apple", "apricot")}))
	p.AddTrigger("input", input, nil)
	p.SetSurface(h.surface("listbox"))
	h.doc.Focus(input)

	p.InputChanged("ap")
	if !p.Open() {
		t.Fatal("typing did not open the combobox")
	}
	if p.KeyDown("a") {
		t.Error("printable key taken from the input")
	}
	p.KeyDown("down")
	p.KeyDown("down")
	p.KeyDown("enter")
	if input.Text != "apricot" {
		t.Errorf("input text = %q, want apricot", input.Text)
	}
	if h.doc.ActiveElement() != input {
		t.Errorf("focus on %v, want input", h.doc.ActiveElement())
	}
}

func TestExitAnimationAndReopen(t *testing.T) {
	h := newHarness()
	var completes []bool
	p := New(Popover, h.opts(Options{OnOpenChangeComplete: func(open bool) { completes = append(completes, open) }}))
	p.AddTrigger("t", h.button("t"), 7)
	p.SetSurface(h.surface("popover"))
	p.Signals().Declare(transition.EdgeExit, true)

	p.SetOpen(true, ReasonImperative, "t", nil)
	h.sched.Advance(16 * time.Millisecond)
	p.SetOpen(false, ReasonImperative, "", nil)
	if s := p.State(); s.Phase != transition.PhaseEnding || !s.Mounted || s.Payload != 7 {
		t.Fatalf("closing: %+v", s)
	}
	if _, ok := p.Attributes()["data-ending-style"]; !ok {
		t.Error("missing data-ending-style while ending")
	}

	p.SetOpen(true, ReasonImperative, "t", nil)
	if got := p.State().Phase; got != transition.PhaseStarting {
		t.Fatalf("phase after reopen = %v, want starting", got)
	}
	p.AnimationFinished(transition.EdgeExit)
	if !p.Mounted() {
		t.Fatal("stale exit signal unmounted a reopened popup")
	}

	p.SetOpen(false, ReasonImperative, "", nil)
	p.AnimationFinished(transition.EdgeExit)
	if s := p.State(); s.Mounted || s.Payload != nil || s.TriggerID != "" {
		t.Errorf("after exit: %+v", s)
	}
	if want := []bool{true, false}; !reflect.DeepEqual(completes, want) {
		t.Errorf("completes = %v, want %v", completes, want)
	}
}

func TestDisableClosesAndClearsTimers(t *testing.T) {
	h := newHarness()
	p := New(PreviewCard, h.opts(Options{}))
	trig := p.AddTrigger("t", h.button("t"), nil)

	p.SetOpen(true, ReasonImperative, "t", nil)
	h.sched.Advance(time.Second)
	trig.PointerEnter(mouse.Point{})
	trig.PointerLeave(mouse.Point{Y: 9})
	p.SetDisabled(true)
	if p.Open() {
		t.Error("disabled popup still open")
	}
	if h.sched.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", h.sched.Pending())
	}
	trig.PointerEnter(mouse.Point{})
	h.sched.Advance(time.Second)
	if p.Open() {
		t.Error("disabled popup opened on hover")
	}
	if p.SetOpen(true, ReasonTriggerPress, "t", nil) {
		t.Error("disabled popup accepted an interactive open")
	}
}

func TestReadOnlyBlocksInteractionWithoutClosing(t *testing.T) {
	h := newHarness()
	field := forms.NewState("fruit", nil, nil)
	p := newSelect(h, field, nil)
	p.SetOpen(true, ReasonImperative, "trigger", nil)
	p.SetReadOnly(true)
	if !p.Open() {
		t.Fatal("read-only closed the popup")
	}
	if p.ItemPointerUp(0) || field.Commits() != 0 {
		t.Error("read-only select committed a value")
	}
}

func TestDisposeRevokesEverything(t *testing.T) {
	h := newHarness()
	p := New(Tooltip, h.opts(Options{}))
	trig := p.AddTrigger("t", h.button("t"), nil)
	p.SetOpen(true, ReasonImperative, "t", nil)
	trig.PointerEnter(mouse.Point{})
	trig.PointerLeave(mouse.Point{Y: 4})

	p.Dispose()
	if h.sched.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", h.sched.Pending())
	}
	if h.coord.Len() != 0 {
		t.Errorf("dismiss registrations = %d, want 0", h.coord.Len())
	}
	if p.SetOpen(false, ReasonImperative, "", nil) {
		t.Error("SetOpen after Dispose = true")
	}
}

func TestModalDialogBlocksOutsidePress(t *testing.T) {
	h := newHarness()
	p := New(Dialog, h.opts(Options{}))
	p.AddTrigger("t", h.button("t"), nil)
	p.SetSurface(h.surface("dialog", "ok"))
	p.SetOpen(true, ReasonImperative, "t", nil)

	if res := h.coord.PointerDown(h.outside); !res.Blocked {
		t.Error("outside press on modal dialog not blocked")
	}
	h.coord.CancelPress()
	if p.Attributes()["aria-modal"] != "true" {
		t.Error("dialog missing aria-modal")
	}
}

type failingPositioner struct{}

func (failingPositioner) Position(_, _, _ mouse.Rect, _ anchor.Options) (anchor.Placement, error) {
	return anchor.Placement{}, anchor.ErrDetached
}

func TestPositioning(t *testing.T) {
	h := newHarness()
	trigNode := h.button("t")
	trigNode.Rect = mouse.Rect{X: 5, Y: 22, W: 6, H: 1}
	p := New(Popover, h.opts(Options{Positioner: anchor.Terminal{}, Anchor: anchor.Options{Side: anchor.SideBottom, Align: anchor.AlignStart}}))
	p.AddTrigger("t", trigNode, nil)
	s := h.surface("popover")
	s.Rect = mouse.Rect{W: 20, H: 6}
	p.SetSurface(s)
	p.SetOpen(true, ReasonImperative, "t", nil)

	pl := p.Reposition(mouse.Rect{W: 80, H: 24})
	if pl.Side != anchor.SideTop || p.Attributes()["data-side"] != "top" {
		t.Errorf("side = %v attr = %q, want top", pl.Side, p.Attributes()["data-side"])
	}
	if s.Rect.Y != 16 {
		t.Errorf("surface y = %d, want 16", s.Rect.Y)
	}

	q := New(Popover, h.opts(Options{Positioner: failingPositioner{}}))
	q.AddTrigger("t", h.button("t2"), nil)
	q.SetSurface(h.surface("other"))
	q.SetOpen(true, ReasonImperative, "t", nil)
	q.Reposition(mouse.Rect{W: 80, H: 24})
	if s := q.State(); !s.Open || !s.Mounted {
		t.Errorf("positioner failure changed state: %+v", s)
	}
}

func TestContextMenuPressOnTriggerAreaDismisses(t *testing.T) {
	h := newHarness()
	area := h.doc.Root().Append(&node.Node{ID: "area", Rect: mouse.Rect{W: 40, H: 10}})
	p := New(ContextMenu, h.opts(Options{Items: listnav.Labels("inspect")}))
	trig := p.AddTrigger("area", area, nil)
	p.SetSurface(h.surface("menu"))

	trig.ContextMenu(mouse.Point{X: 3, Y: 4})
	if !p.Open() {
		t.Fatal("context menu did not open")
	}
	h.press(area)
	if p.Open() {
		t.Error("press on the trigger area left the context menu open")
	}
}

func TestAttributes(t *testing.T) {
	h := newHarness()
	p := New(Menu, h.opts(Options{Items: []listnav.Item{{Label: "a", Node: node.New("item-a", node.KindGeneric)}, {Label: "b", Disabled: true}}}))
	p.AddTrigger("t", h.button("t"), nil)
	p.AddTrigger("u", h.button("u"), nil)

	if got := p.TriggerAttributes("t")["aria-expanded"]; got != "false" {
		t.Errorf("closed aria-expanded = %q", got)
	}
	p.Trigger("t").KeyDown("down")

	attrs := p.Attributes()
	for _, key := range []string{"data-open", "data-starting-style"} {
		if _, ok := attrs[key]; !ok {
			t.Errorf("missing %s", key)
		}
	}
	if attrs["aria-activedescendant"] != "item-a" {
		t.Errorf("aria-activedescendant = %q, want item-a", attrs["aria-activedescendant"])
	}
	if p.TriggerAttributes("t")["aria-expanded"] != "true" || p.TriggerAttributes("u")["aria-expanded"] != "false" {
		t.Error("aria-expanded should be true only on the opening trigger")
	}
	item := p.ItemAttributes(0)
	if _, ok := item["data-highlighted"]; !ok || item["data-highlight-origin"] != "keyboard" {
		t.Errorf("item attrs = %v", item)
	}
	if _, ok := p.ItemAttributes(1)["data-disabled"]; !ok {
		t.Error("disabled item missing data-disabled")
	}
}

func TestFieldValidationErrorDoesNotBlockClose(t *testing.T) {
	h := newHarness()
	errBad := errors.New("gamma is out of season")
	field := forms.NewState("fruit", nil, func(v any) error {
		if v == "gamma" {
			return errBad
		}
		return nil
	})
	p := newSelect(h, field, nil)
	p.SetOpen(true, ReasonImperative, "trigger", nil)
	p.ItemPointerUp(2)
	if !errors.Is(field.Err(), errBad) {
		t.Errorf("field err = %v, want %v", field.Err(), errBad)
	}
	if p.Open() {
		t.Error("select stayed open after commit")
	}
	if !field.Touched() {
		t.Error("closing did not touch the field")
	}
}

func TestKindCapabilities(t *testing.T) {
	tests := []struct {
		kind Kind
		has  Capability
		not  Capability
	}{
		{Tooltip, CapHover | CapDismiss, CapList | CapFocus},
		{Combobox, CapHover | CapDismiss | CapList | CapFocus | CapForm, 0},
		{Dialog, CapDismiss | CapFocus, CapHover | CapList},
		{Select, CapList | CapForm, CapHover},
	}
	for _, tt := range tests {
		caps := tt.kind.Capabilities()
		if !caps.Has(tt.has) {
			t.Errorf("%v capabilities %b missing %b", tt.kind, caps, tt.has)
		}
		if tt.not != 0 && caps&tt.not != 0 {
			t.Errorf("%v capabilities %b include %b", tt.kind, caps, tt.not)
		}
		if k, ok := ParseKind(tt.kind.String()); !ok || k != tt.kind {
			t.Errorf("ParseKind(%q) = %v, %v", tt.kind.String(), k, ok)
		}
	}
}
