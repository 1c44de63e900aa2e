package listnav

import (
	"reflect"
	"testing"
	"time"

	"github.com/wilbur182/disclosure/internal/controlled"
	"github.com/wilbur182/disclosure/internal/keymap"
	"github.com/wilbur182/disclosure/internal/timer"
)

func newNav(opts Options, labels ...string) (*Navigator, *timer.Manual) {
	sched := timer.NewManual()
	n := New(sched, opts)
	n.SetItems(Labels(labels...))
	return n, sched
}

func TestTypeaheadRepeatedCharCycles(t *testing.T) {
	n, sched := newNav(Options{}, "apple", "banana", "blueberry")

	var got []int
	for i := 0; i < 3; i++ {
		n.KeyDown("b")
		got = append(got, n.ActiveIndex())
		sched.Advance(100 * time.Millisecond)
	}
	if want := []int{1, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("active indexes = %v, want %v", got, want)
	}
}

func TestTypeaheadPrefixAndTimeout(t *testing.T) {
	n, sched := newNav(Options{}, "apple", "banana", "blueberry", "cherry")

	n.KeyDown("b")
	n.KeyDown("L")
	if got := n.ActiveIndex(); got != 2 {
		t.Fatalf("after \"bl\" active = %d, want 2", got)
	}
	if got := n.TypeaheadBuffer(); got != "bL" {
		t.Errorf("buffer = %q, want %q", got, "bL")
	}

	sched.Advance(500 * time.Millisecond)
	if got := n.TypeaheadBuffer(); got != "" {
		t.Errorf("buffer after timeout = %q, want empty", got)
	}
	n.KeyDown("c")
	if got := n.ActiveIndex(); got != 3 {
		t.Errorf("after timeout \"c\" active = %d, want 3", got)
	}
}

func TestTypeaheadSkipsDisabledAndNoMatchResets(t *testing.T) {
	sched := timer.NewManual()
	n := New(sched, Options{})
	n.SetItems([]Item{{Label: "bravo", Disabled: true}, {Label: "beta"}, {Label: "gamma"}})

	n.KeyDown("b")
	if got := n.ActiveIndex(); got != 1 {
		t.Errorf("active = %d, want 1", got)
	}
	n.KeyDown("z")
	if got := n.TypeaheadBuffer(); got != "" {
		t.Errorf("buffer after miss = %q, want empty", got)
	}
	if got := n.ActiveIndex(); got != 1 {
		t.Errorf("active after miss = %d, want 1", got)
	}
}

func TestTypeaheadDoubledLetterExtendsPrefix(t *testing.T) {
	n, _ := newNav(Options{}, "lemon", "llama", "lime")
	n.KeyDown("l")
	n.KeyDown("l")
	if got := n.ActiveIndex(); got != 1 {
		t.Errorf("active = %d, want 1 (llama)", got)
	}
}

func TestSpaceContinuesBufferOrSelects(t *testing.T) {
	var selected []int
	n, _ := newNav(Options{OnSelect: func(i int, _ Item, _ *controlled.Details) {
		selected = append(selected, i)
	}}, "new york", "new jersey", "nevada")

	n.KeyDown("n")
	n.KeyDown("e")
	n.KeyDown("w")
	n.KeyDown("space")
	n.KeyDown("j")
	if got := n.ActiveIndex(); got != 1 {
		t.Fatalf("active = %d, want 1", got)
	}
	if len(selected) != 0 {
		t.Fatalf("space inside typeahead selected %v", selected)
	}

	n.Stop()
	n.KeyDown("space")
	if want := []int{1}; !reflect.DeepEqual(selected, want) {
		t.Errorf("selected = %v, want %v", selected, want)
	}
}

func TestLoopWraps(t *testing.T) {
	tests := []struct {
		name  string
		start int
		key   string
		want  int
	}{
		{"up from first", 0, "up", 2},
		{"down from last", 2, "down", 0},
		{"down in middle", 1, "down", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _ := newNav(Options{Loop: true}, "a", "b", "c")
			n.SetActive(tt.start, controlled.ReasonNone)
			n.KeyDown(tt.key)
			if got := n.ActiveIndex(); got != tt.want {
				t.Errorf("active = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNoLoopStopsAtEnds(t *testing.T) {
	n, _ := newNav(Options{}, "a", "b", "c")
	n.SetActive(2, controlled.ReasonNone)
	n.KeyDown("down")
	if got := n.ActiveIndex(); got != 2 {
		t.Errorf("active = %d, want 2", got)
	}
	n.SetActive(0, controlled.ReasonNone)
	n.KeyDown("up")
	if got := n.ActiveIndex(); got != 0 {
		t.Errorf("active = %d, want 0", got)
	}
}

func TestAllowEscapeClearsPastEnd(t *testing.T) {
	n, _ := newNav(Options{Loop: true, AllowEscape: true}, "a", "b", "c")
	n.SetActive(2, controlled.ReasonNone)
	n.KeyDown("down")
	if got := n.ActiveIndex(); got != -1 {
		t.Fatalf("active = %d, want -1", got)
	}
	n.KeyDown("down")
	if got := n.ActiveIndex(); got != 0 {
		t.Errorf("active = %d, want 0", got)
	}
}

func TestArrowsSkipDisabled(t *testing.T) {
	sched := timer.NewManual()
	n := New(sched, Options{})
	n.SetItems([]Item{{Label: "a", Disabled: true}, {Label: "b"}, {Label: "c", Disabled: true}, {Label: "d"}, {Label: "e", Disabled: true}})

	n.KeyDown("down")
	if got := n.ActiveIndex(); got != 1 {
		t.Errorf("first down = %d, want 1", got)
	}
	n.KeyDown("down")
	if got := n.ActiveIndex(); got != 3 {
		t.Errorf("second down = %d, want 3", got)
	}
	n.KeyDown("home")
	if got := n.ActiveIndex(); got != 1 {
		t.Errorf("home = %d, want 1", got)
	}
	n.KeyDown("end")
	if got := n.ActiveIndex(); got != 3 {
		t.Errorf("end = %d, want 3", got)
	}
}

func TestHorizontalOrientation(t *testing.T) {
	n, _ := newNav(Options{Orientation: Horizontal}, "a", "b")
	if n.KeyDown("down") {
		t.Error("down handled by a horizontal list")
	}
	n.KeyDown("right")
	if got := n.ActiveIndex(); got != 0 {
		t.Errorf("active = %d, want 0", got)
	}
}

func TestPageKeys(t *testing.T) {
	labels := make([]string, 25)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	n, _ := newNav(Options{PageSize: 10}, labels...)
	n.SetActive(0, controlled.ReasonNone)
	n.KeyDown("pgdown")
	if got := n.ActiveIndex(); got != 10 {
		t.Errorf("pgdown = %d, want 10", got)
	}
	n.KeyDown("pgdown")
	n.KeyDown("pgdown")
	if got := n.ActiveIndex(); got != 24 {
		t.Errorf("pgdown clamped = %d, want 24", got)
	}
	n.KeyDown("pgup")
	if got := n.ActiveIndex(); got != 14 {
		t.Errorf("pgup = %d, want 14", got)
	}
}

func TestUserOverrideBinding(t *testing.T) {
	km := keymap.NewDefault(map[string]string{"j": "next"})
	n, _ := newNav(Options{Keymap: km}, "apple", "jam")
	n.KeyDown("j")
	if got := n.ActiveIndex(); got != 0 {
		t.Errorf("active = %d, want 0 (j bound to next)", got)
	}
}

func TestPointerOriginAndLeave(t *testing.T) {
	n, _ := newNav(Options{}, "a", "b", "c")
	n.ItemPointerMove(1)
	if n.ActiveIndex() != 1 || n.HighlightOrigin() != OriginPointer {
		t.Fatalf("active = %d origin = %v, want 1 pointer", n.ActiveIndex(), n.HighlightOrigin())
	}
	n.KeyDown("down")
	if n.HighlightOrigin() != OriginKeyboard {
		t.Errorf("origin = %v, want keyboard", n.HighlightOrigin())
	}
	n.PointerLeaveList()
	if got := n.ActiveIndex(); got != 2 {
		t.Errorf("keyboard highlight cleared on pointer leave: active = %d", got)
	}
	n.ItemPointerMove(0)
	n.PointerLeaveList()
	if got := n.ActiveIndex(); got != -1 {
		t.Errorf("active after pointer leave = %d, want -1", got)
	}
}

func TestDragSelectCommitsOnce(t *testing.T) {
	var commits []string
	n, _ := newNav(Options{OnSelect: func(_ int, it Item, _ *controlled.Details) {
		commits = append(commits, it.Label)
	}}, "alpha", "beta", "gamma")

	n.BeginDrag()
	n.DragMove(0)
	n.DragMove(1)
	if got := n.ActiveIndex(); got != 1 {
		t.Errorf("preview active = %d, want 1", got)
	}
	if !n.EndDrag(1) {
		t.Error("EndDrag over beta = false, want committed")
	}
	if n.EndDrag(1) {
		t.Error("second EndDrag committed again")
	}
	if want := []string{"beta"}; !reflect.DeepEqual(commits, want) {
		t.Errorf("commits = %v, want %v", commits, want)
	}
}

func TestDragReleasedOutsideCommitsNothing(t *testing.T) {
	committed := 0
	n, _ := newNav(Options{OnSelect: func(int, Item, *controlled.Details) { committed++ }}, "alpha", "beta")

	n.BeginDrag()
	n.DragMove(1)
	n.DragMove(-1)
	if n.EndDrag(-1) {
		t.Error("EndDrag outside = true")
	}

	n.BeginDrag()
	if n.EndDrag(1) {
		t.Error("EndDrag without crossing an item = true")
	}
	if committed != 0 {
		t.Errorf("commits = %d, want 0", committed)
	}
}

func TestSetItemsFollowsActiveByKey(t *testing.T) {
	n, _ := newNav(Options{}, "a", "b", "c")
	n.SetActive(2, controlled.ReasonNone)
	n.Select(2, nil)

	n.SetItems(Labels("c", "a"))
	if got := n.ActiveIndex(); got != 0 {
		t.Errorf("active = %d, want 0 (followed c)", got)
	}
	if got := n.SelectedIndex(); got != 0 {
		t.Errorf("selected = %d, want 0", got)
	}

	n.SetItems(Labels("x"))
	if got := n.ActiveIndex(); got != -1 {
		t.Errorf("active after removal = %d, want -1", got)
	}
	if got := n.SelectedIndex(); got != -1 {
		t.Errorf("selected after removal = %d, want -1", got)
	}
}

func TestControlledActiveIndexStaysValid(t *testing.T) {
	var requested []int
	sched := timer.NewManual()
	n := New(sched, Options{
		ActiveIndex:         controlled.Some(2),
		OnActiveIndexChange: func(next int, _ *controlled.Details) { requested = append(requested, next) },
	})
	n.SetItems(Labels("a", "b", "c"))
	if got := n.ActiveIndex(); got != 2 {
		t.Fatalf("active = %d, want 2", got)
	}

	n.KeyDown("up")
	if got := n.ActiveIndex(); got != 2 {
		t.Errorf("controlled active mutated to %d", got)
	}

	n.SetItems(Labels("a"))
	if got := n.ActiveIndex(); got != -1 {
		t.Errorf("stale controlled index read as %d, want -1", got)
	}
	if len(requested) == 0 || requested[0] != 1 {
		t.Errorf("requested = %v, want first request 1", requested)
	}
}

func TestMultipleSelectionToggles(t *testing.T) {
	n, _ := newNav(Options{Multiple: true}, "a", "b", "c")
	n.Select(2, nil)
	n.Select(0, nil)
	n.Select(2, nil)
	if want := []int{0}; !reflect.DeepEqual(n.Selected(), want) {
		t.Errorf("selected = %v, want %v", n.Selected(), want)
	}
}

func TestSelectCanBeCanceled(t *testing.T) {
	n, _ := newNav(Options{OnSelect: func(_ int, _ Item, d *controlled.Details) { d.Cancel() }}, "a")
	if n.Select(0, nil) {
		t.Error("Select() = true after cancel")
	}
	if n.SelectedIndex() != -1 {
		t.Errorf("selected = %d, want -1", n.SelectedIndex())
	}
}

func TestItemIDDefaultsToLabelHash(t *testing.T) {
	a := Item{Label: "beta"}
	b := Item{Label: "beta", Disabled: true}
	if a.ID() != b.ID() {
		t.Errorf("same label hashed differently: %q vs %q", a.ID(), b.ID())
	}
	if (Item{Key: "k", Label: "beta"}).ID() != "k" {
		t.Error("explicit key ignored")
	}
}
