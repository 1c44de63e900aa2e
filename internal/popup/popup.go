// Package popup composes the engine parts into disclosure popups: tooltip,
// preview card, popover, menu, context menu, select, combobox and dialog.
//
// A Popup owns one controlled open flag, a transition tracker, and whatever
// of hover intent, dismissal, list navigation and focus transfer its Kind
// needs. Several triggers may share one popup; the trigger that opened it
// and its payload are part of the state.
package popup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/wilbur182/disclosure/internal/anchor"
	"github.com/wilbur182/disclosure/internal/controlled"
	"github.com/wilbur182/disclosure/internal/diag"
	"github.com/wilbur182/disclosure/internal/dismiss"
	"github.com/wilbur182/disclosure/internal/focus"
	"github.com/wilbur182/disclosure/internal/hoverintent"
	"github.com/wilbur182/disclosure/internal/keymap"
	"github.com/wilbur182/disclosure/internal/listnav"
	"github.com/wilbur182/disclosure/internal/mouse"
	"github.com/wilbur182/disclosure/internal/node"
	"github.com/wilbur182/disclosure/internal/timer"
	"github.com/wilbur182/disclosure/internal/transition"
)

// State is the read-back view of a popup for the rendering layer.
type State struct {
	Open      bool
	Mounted   bool
	Phase     transition.Phase
	TriggerID string
	Payload   any

	Side        anchor.Side
	Placement   anchor.Placement
	ActiveIndex int
	Origin      listnav.Origin
	Dragging    bool
	Modal       bool
	Disabled    bool
	ReadOnly    bool
}

// Popup is one disclosure instance.
type Popup struct {
	kind   Kind
	caps   Capability
	id     string
	opts   Options
	logger *slog.Logger
	sched  timer.Scheduler
	doc    *node.Document
	km     *keymap.Registry

	open    *controlled.Cell[bool]
	tracker *transition.Tracker
	signals *transition.Signals
	hover   *hoverintent.Intent
	coord   *dismiss.Coordinator
	reg     *dismiss.Registration
	list    *listnav.Navigator
	focus   *focus.Manager
	unsubs  []func()

	triggers map[string]*Trigger
	order    []string
	surface  *node.Node

	// applied is the open flag the side effects currently reflect. It
	// trails the cell in controlled mode until the owner syncs.
	applied        bool
	triggerID      string
	payload        any
	pendingTrigger string
	pendingReason  controlled.Reason
	openReason     controlled.Reason
	openedAt       time.Time
	openKey        string
	interaction    focus.Interaction
	hoverTrigger   string
	pressOpened    bool
	hoverDeferred  bool
	focusPending   bool
	selectPending  int
	anchorPoint    *mouse.Point
	bounds         mouse.Rect
	placement      anchor.Placement
	patient        time.Duration

	disabled bool
	readOnly bool
	disposed bool
}

// New builds a popup of the given kind.
func New(kind Kind, opts Options) *Popup {
	p := &Popup{
		kind:          kind,
		caps:          kind.Capabilities(),
		opts:          opts,
		logger:        opts.Logger,
		sched:         opts.Scheduler,
		doc:           opts.Doc,
		km:            opts.Keymap,
		triggers:      make(map[string]*Trigger),
		selectPending: -1,
		patient:       opts.PatientClickThreshold,
		disabled:      opts.Disabled,
		readOnly:      opts.ReadOnly,
		placement:     anchor.Placement{Side: opts.Anchor.Side, Align: opts.Anchor.Align},
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.id = opts.ID
	if p.id == "" {
		p.id = fmt.Sprintf("%s-%p", kind, p)
	}
	p.logger = p.logger.With("popup", p.id)
	if p.sched == nil {
		diag.Report(p.logger, diag.ErrMissingScheduler)
		p.sched = timer.NewManual()
	}
	if p.doc == nil {
		p.doc = node.NewDocument()
	}
	if p.km == nil {
		p.km = keymap.NewDefault(nil)
	}
	if p.patient <= 0 {
		p.patient = 500 * time.Millisecond
	}

	p.open = controlled.New(opts.Open, opts.DefaultOpen, opts.OnOpenChange,
		controlled.WithName(p.id+".open"), controlled.WithLogger(p.logger))

	anim := opts.Animator
	if anim == nil {
		p.signals = transition.NewSignals()
		anim = p.signals
	}
	tOpts := []transition.Option{transition.WithLogger(p.logger)}
	if opts.FrameDelay > 0 {
		tOpts = append(tOpts, transition.WithFrameDelay(opts.FrameDelay))
	}
	if opts.ExitTimeout > 0 {
		tOpts = append(tOpts, transition.WithExitTimeout(opts.ExitTimeout))
	} else if opts.ExitTimeout < 0 {
		tOpts = append(tOpts, transition.WithExitTimeout(0))
	}
	p.tracker = transition.New(p.sched, anim, tOpts...)
	p.unsubs = append(p.unsubs, p.tracker.OnComplete(p.transitionComplete))

	if p.caps.Has(CapHover) && (kind.hoverByDefault() || opts.OpenOnHover) {
		cfg := DefaultHover(kind)
		if opts.Hover != nil {
			cfg = *opts.Hover
		}
		p.hover = hoverintent.New(p.sched, cfg, hoverintent.Callbacks{
			Open:  p.hoverOpen,
			Close: p.hoverClose,
		})
		p.hover.SetLogger(p.logger)
	}

	if p.caps.Has(CapDismiss) {
		p.coord = opts.Dismiss
		if p.coord == nil {
			p.coord = dismiss.New(p.logger)
		}
	}

	if p.caps.Has(CapList) {
		lo := opts.List
		if lo.Keymap == nil {
			lo.Keymap = p.km
		}
		if lo.Logger == nil {
			lo.Logger = p.logger
		}
		userSelect := lo.OnSelect
		lo.OnSelect = func(i int, it listnav.Item, d *controlled.Details) {
			if userSelect != nil {
				userSelect(i, it, d)
			}
			if !d.IsCanceled() {
				p.selectPending = i
			}
		}
		p.list = listnav.New(p.sched, lo)
		p.list.SetItems(opts.Items)
		p.syncSelectionFromField()
	}

	if p.caps.Has(CapFocus) {
		initial, final := opts.InitialFocus, opts.FinalFocus
		if kind == Combobox {
			// Real focus stays on the input; the list uses virtual focus
			initial, final = focus.None(), focus.None()
		}
		p.focus = focus.New(p.doc,
			focus.WithInitialFocus(initial),
			focus.WithFinalFocus(final),
			focus.WithReturnFocus(!opts.DisableReturnFocus),
			focus.WithLogger(p.logger))
	}

	if p.disabled || p.readOnly {
		p.suspendHover()
	}
	if p.open.Get() {
		p.apply(true, "", ReasonImperative)
	}
	return p
}

// ID returns the popup's dismissal id.
func (p *Popup) ID() string { return p.id }

// Kind returns the popup's flavor.
func (p *Popup) Kind() Kind { return p.kind }

// Doc returns the document focus moves in.
func (p *Popup) Doc() *node.Document { return p.doc }

// List returns the list navigator, or nil for flavors without a list.
func (p *Popup) List() *listnav.Navigator { return p.list }

// Hover returns the hover intent, or nil when hover is off.
func (p *Popup) Hover() *hoverintent.Intent { return p.hover }

// Signals returns the built-in animator, or nil when Options.Animator was
// supplied. Declare edges on it before opening or closing.
func (p *Popup) Signals() *transition.Signals { return p.signals }

// Surface returns the surface node.
func (p *Popup) Surface() *node.Node { return p.surface }

// Open reports the current open flag.
func (p *Popup) Open() bool { return p.open.Get() }

// Mounted reports whether content is materialized.
func (p *Popup) Mounted() bool { return p.tracker.Mounted() }

// State returns the popup's read-back state.
func (p *Popup) State() State {
	s := State{
		Open:        p.open.Get(),
		Mounted:     p.tracker.Mounted(),
		Phase:       p.tracker.Phase(),
		TriggerID:   p.triggerID,
		Payload:     p.payload,
		Side:        p.placement.Side,
		Placement:   p.placement,
		ActiveIndex: -1,
		Modal:       p.modal(),
		Disabled:    p.disabled,
		ReadOnly:    p.readOnly,
	}
	if p.list != nil {
		s.ActiveIndex = p.list.ActiveIndex()
		s.Origin = p.list.HighlightOrigin()
		s.Dragging = p.list.Dragging()
	}
	return s
}

// SetSurface attaches the popup's surface node. Focus that was waiting for
// the surface moves in now.
func (p *Popup) SetSurface(n *node.Node) {
	p.surface = n
	if n != nil {
		n.Kind = node.KindSurface
	}
	if p.reg != nil {
		p.reg.SetNodes(p.dismissTrigger(), n)
	}
	if p.hover != nil && n != nil {
		p.hover.SetSurfaceRect(n.Rect)
	}
	if p.applied {
		p.position()
		if p.focusPending {
			p.focusOpen()
		}
	}
}

// SetItems replaces the list items. Highlight and selection follow their
// items by key.
func (p *Popup) SetItems(items []listnav.Item) {
	if p.list == nil {
		return
	}
	p.list.SetItems(items)
	p.syncSelectionFromField()
}

// Toggle flips the open flag.
func (p *Popup) Toggle(reason controlled.Reason, triggerID string, ev any) bool {
	return p.SetOpen(!p.open.Get(), reason, triggerID, ev)
}

// SetOpen requests an open change. The change callback runs first and may
// cancel. In controlled mode nothing changes until the owner syncs the new
// value back. Returns false when the request was refused or canceled.
func (p *Popup) SetOpen(open bool, reason controlled.Reason, triggerID string, ev any) bool {
	if p.disposed {
		diag.Report(p.logger, diag.ErrDisposed)
		return false
	}
	if open && !p.interactive() && reason != ReasonImperative {
		return false
	}
	if triggerID != "" {
		if _, ok := p.triggers[triggerID]; !ok {
			p.logger.Debug("popup: unknown trigger", "trigger", triggerID)
			triggerID = ""
		}
	}

	if open == p.open.Get() {
		if open && p.applied && triggerID != "" && triggerID != p.triggerID {
			p.switchTrigger(triggerID)
		}
		return true
	}

	d := controlled.NewDetails(reason)
	d.Event = ev
	d.Trigger = triggerID
	if !p.open.Set(open, d) {
		p.logger.Debug("popup: open change canceled", "open", open, "reason", reason)
		return false
	}
	if p.open.Controlled() {
		p.pendingTrigger = triggerID
		p.pendingReason = reason
		return true
	}
	p.apply(open, triggerID, reason)
	return true
}

// Sync delivers the owner's props for this render: the controlled open
// flag and active index, and the disabled and read-only flags.
func (p *Popup) Sync(o Options) {
	if p.disposed {
		return
	}
	p.open.Sync(o.Open)
	if p.open.Controlled() && p.open.Get() != p.applied {
		reason := p.pendingReason
		if reason == "" {
			reason = ReasonImperative
		}
		p.apply(p.open.Get(), p.pendingTrigger, reason)
	}
	p.pendingTrigger, p.pendingReason = "", ""

	if p.list != nil && o.List.ActiveIndex.IsSet() {
		p.list.SyncActiveIndex(o.List.ActiveIndex)
	}
	p.SetDisabled(o.Disabled)
	p.SetReadOnly(o.ReadOnly)
}

// SetDisabled suppresses all interaction. Disabling clears hover timers
// and closes an open popup.
func (p *Popup) SetDisabled(disabled bool) {
	if disabled == p.disabled {
		return
	}
	p.disabled = disabled
	if !disabled {
		p.resumeHover()
		return
	}
	p.suspendHover()
	if p.open.Get() {
		p.SetOpen(false, ReasonDisabled, "", nil)
	}
}

// SetReadOnly suppresses interaction without closing.
func (p *Popup) SetReadOnly(readOnly bool) {
	if readOnly == p.readOnly {
		return
	}
	p.readOnly = readOnly
	if readOnly {
		p.suspendHover()
	} else {
		p.resumeHover()
	}
}

// AnimationFinished reports that the surface's enter or exit animation
// completed. Only meaningful with the built-in animator.
func (p *Popup) AnimationFinished(edge transition.Edge) {
	if p.signals != nil {
		p.signals.Finish(edge)
	}
}

// Reposition runs the positioner against bounds and returns the placement.
func (p *Popup) Reposition(bounds mouse.Rect) anchor.Placement {
	p.bounds = bounds
	p.position()
	return p.placement
}

// Check runs the focus safety net; call it after the tree changes.
func (p *Popup) Check() bool {
	if p.focus == nil || !p.applied {
		return false
	}
	return p.focus.Check()
}

// Dispose revokes every timer, registration and subscription. The popup
// must not be used afterwards.
func (p *Popup) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.tracker.Stop()
	if p.hover != nil {
		p.hover.Stop()
	}
	if p.list != nil {
		p.list.Stop()
	}
	p.unregister()
	for _, unsub := range p.unsubs {
		unsub()
	}
	p.unsubs = nil
	p.logger.Debug("popup: disposed")
}

func (p *Popup) interactive() bool {
	return !p.disabled && !p.readOnly && !p.disposed
}

func (p *Popup) modal() bool {
	if p.opts.Modal != nil {
		return *p.opts.Modal
	}
	return p.kind == Dialog
}

// apply runs the side effects of an open change that was accepted.
func (p *Popup) apply(open bool, triggerID string, reason controlled.Reason) {
	p.hoverDeferred = false
	if open {
		p.applied = true
		p.triggerID = triggerID
		p.payload = nil
		if t := p.triggers[triggerID]; t != nil {
			p.payload = t.Payload
		}
		p.openReason = reason
		p.openedAt = p.sched.Now()
		p.logger.Debug("popup: open", "reason", reason, "trigger", triggerID)

		p.tracker.SetOpen(true)
		if p.hover != nil {
			p.hover.SetOpen(true)
		}
		p.register()
		p.position()
		p.focusOpen()
		p.highlightOnOpen()
		return
	}

	p.applied = false
	p.pressOpened = false
	p.logger.Debug("popup: close", "reason", reason)
	if p.hover != nil {
		p.hover.SetOpen(false)
	}
	if p.reg != nil {
		p.reg.CloseChildren()
	}
	if p.list != nil {
		p.list.CancelDrag()
	}
	if p.focus != nil && p.focus.IsOpen() {
		p.focus.Close(p.interaction)
	}
	p.focusPending = false
	if t, ok := p.opts.Field.(interface{ Touch() }); ok && p.caps.Has(CapForm) {
		t.Touch()
	}
	p.unregister()
	p.tracker.SetOpen(false)
}

func (p *Popup) transitionComplete(open bool) {
	if !open {
		p.triggerID = ""
		p.payload = nil
		p.anchorPoint = nil
		if p.list != nil {
			p.list.Reset()
		}
		p.logger.Debug("popup: unmounted")
	}
	if p.opts.OnOpenChangeComplete != nil {
		p.opts.OnOpenChangeComplete(open)
	}
}

func (p *Popup) switchTrigger(id string) {
	t := p.triggers[id]
	p.triggerID = id
	p.payload = t.Payload
	if p.reg != nil {
		p.reg.SetNodes(p.dismissTrigger(), p.surface)
	}
	if p.focus != nil {
		p.focus.SetOpener(t.Node)
	}
	p.position()
	p.logger.Debug("popup: trigger switched", "trigger", id)
}

func (p *Popup) triggerNode() *node.Node {
	if t := p.triggers[p.triggerID]; t != nil {
		return t.Node
	}
	if len(p.order) > 0 {
		return p.triggers[p.order[0]].Node
	}
	return nil
}

// dismissTrigger is the trigger a press is "inside" for dismissal. A
// context menu's trigger is a whole region, and pressing it closes the menu.
func (p *Popup) dismissTrigger() *node.Node {
	if p.kind == ContextMenu {
		return nil
	}
	return p.triggerNode()
}

func (p *Popup) register() {
	if p.coord == nil {
		return
	}
	var inside []*node.Node
	if p.kind != ContextMenu {
		for _, id := range p.order {
			inside = append(inside, p.triggers[id].Node)
		}
	}
	p.reg = p.coord.Register(p.id, p.dismissTrigger(), p.surface, p.onDismiss,
		dismiss.WithOutsidePress(p.kind != Tooltip),
		dismiss.WithModal(p.modal()),
		dismiss.WithParent(p.opts.ParentID),
		dismiss.WithInside(inside...),
		dismiss.WithChildrenClosed(p.childrenClosed))
}

func (p *Popup) unregister() {
	if p.reg != nil {
		p.reg.Unregister()
		p.reg = nil
	}
}

func (p *Popup) onDismiss(ev dismiss.Event) {
	reason := ReasonOutsidePress
	switch ev.Kind {
	case dismiss.EventEscape:
		reason = ReasonEscapeKey
		p.interaction = focus.InteractionKeyboard
	case dismiss.EventParentClose:
		reason = ReasonParentClose
	default:
		p.interaction = focus.InteractionPointer
	}
	p.SetOpen(false, reason, "", ev)
}

func (p *Popup) focusOpen() {
	if p.focus == nil || p.openReason == ReasonTriggerHover {
		return
	}
	if p.surface == nil {
		p.focusPending = true
		return
	}
	p.focusPending = false
	p.focus.Open(p.surface, p.triggerNode(), p.interaction)
}

func (p *Popup) highlightOnOpen() {
	if p.list == nil {
		return
	}
	if sel := p.list.SelectedIndex(); sel >= 0 && p.kind == Select {
		p.list.SetActive(sel, ReasonListNavigation)
		return
	}
	if p.interaction != focus.InteractionKeyboard || p.kind == Combobox {
		return
	}
	if p.openKey == "up" {
		p.list.HighlightLast()
	} else {
		p.list.HighlightFirst()
	}
}

func (p *Popup) position() {
	if p.opts.Positioner == nil || p.surface == nil {
		return
	}
	var ref mouse.Rect
	switch {
	case p.anchorPoint != nil:
		ref = anchor.PointRect(*p.anchorPoint)
	case p.triggerNode() != nil:
		ref = p.triggerNode().Rect
	default:
		return
	}
	pl, err := p.opts.Positioner.Position(ref, p.surface.Rect, p.bounds, p.opts.Anchor)
	if err != nil {
		p.logger.Debug("popup: positioning failed", "err", err)
		return
	}
	p.placement = pl
	p.surface.Rect = pl.Rect
	if p.hover != nil {
		p.hover.SetSurfaceRect(pl.Rect)
	}
}

func (p *Popup) hoverOpen() {
	p.interaction = focus.InteractionPointer
	p.SetOpen(true, ReasonTriggerHover, p.hoverTrigger, nil)
}

func (p *Popup) hoverClose() {
	if p.openReason != ReasonTriggerHover && !p.kind.hoverByDefault() {
		return
	}
	// The pointer may have moved on into a submenu
	if p.reg != nil && p.reg.HasChildren() {
		p.hoverDeferred = true
		p.hover.SetOpen(true)
		p.logger.Debug("popup: hover close deferred to nested popups")
		return
	}
	p.interaction = focus.InteractionPointer
	p.SetOpen(false, ReasonTriggerHover, "", nil)
}

// childrenClosed retries a deferred hover close once the last nested popup
// is gone, unless the pointer came back.
func (p *Popup) childrenClosed() {
	if !p.hoverDeferred || !p.applied {
		return
	}
	p.hoverDeferred = false
	if p.hover != nil && p.hover.Hovering() {
		return
	}
	p.hoverClose()
}

func (p *Popup) suspendHover() {
	if p.hover != nil {
		p.hover.Disable()
	}
}

func (p *Popup) resumeHover() {
	if p.hover != nil && p.interactive() {
		p.hover.Enable()
	}
}
