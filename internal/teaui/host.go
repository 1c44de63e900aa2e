// Package teaui hosts popups in a bubbletea program. It plays the
// rendering layer: it lays out triggers and surfaces on the cell grid,
// routes mouse and key messages into the engine, and draws popup state with
// the active theme.
package teaui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/disclosure/internal/anchor"
	"github.com/wilbur182/disclosure/internal/dismiss"
	"github.com/wilbur182/disclosure/internal/keymap"
	"github.com/wilbur182/disclosure/internal/listnav"
	"github.com/wilbur182/disclosure/internal/mouse"
	"github.com/wilbur182/disclosure/internal/node"
	"github.com/wilbur182/disclosure/internal/popup"
	"github.com/wilbur182/disclosure/internal/timer"
)

// DefaultMaxVisible is the number of list rows a surface shows before it
// scrolls.
const DefaultMaxVisible = 8

// Options configures a Host.
type Options struct {
	Title      string
	Logger     *slog.Logger
	Keymap     *keymap.Registry
	MaxVisible int
}

// Widget is one popup mounted in the host, with its triggers and surface.
type Widget struct {
	Popup *popup.Popup
	// Body is the surface content for popups without a list.
	Body string

	triggers []*triggerView
	surface  *node.Node
	items    []*node.Node
	input    *textinput.Model
	offset   int
}

type triggerView struct {
	id    string
	label string
	node  *node.Node
}

// Offset returns the list scroll offset.
func (w *Widget) Offset() int { return w.offset }

// Host is a tea.Model driving a set of popups.
type Host struct {
	title      string
	logger     *slog.Logger
	sched      *timer.Tea
	doc        *node.Document
	coord      *dismiss.Coordinator
	km         *keymap.Registry
	mouse      *mouse.Handler
	maxVisible int

	widgets []*Widget
	width   int
	height  int

	hoverNode *node.Node
	pressNode *node.Node
	status    string
	quitting  bool
}

// New creates a host with its own scheduler, document and dismissal stack.
func New(opts Options) *Host {
	h := &Host{
		title:      opts.Title,
		logger:     opts.Logger,
		sched:      timer.NewTea(),
		doc:        node.NewDocument(),
		km:         opts.Keymap,
		mouse:      mouse.NewHandler(),
		maxVisible: opts.MaxVisible,
		width:      80,
		height:     24,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.km == nil {
		h.km = keymap.NewDefault(nil)
	}
	if h.maxVisible <= 0 {
		h.maxVisible = DefaultMaxVisible
	}
	h.coord = dismiss.New(h.logger)
	return h
}

// PopupOptions fills in the collaborators every popup in this host shares.
func (h *Host) PopupOptions(o popup.Options) popup.Options {
	o.Scheduler = h.sched
	o.Doc = h.doc
	o.Dismiss = h.coord
	o.Keymap = h.km
	if o.Logger == nil {
		o.Logger = h.logger
	}
	if o.Positioner == nil {
		o.Positioner = anchor.Terminal{}
	}
	return o
}

// Scheduler returns the host's timer scheduler.
func (h *Host) Scheduler() *timer.Tea { return h.sched }

// Doc returns the host's document.
func (h *Host) Doc() *node.Document { return h.doc }

// Coordinator returns the host's dismissal stack.
func (h *Host) Coordinator() *dismiss.Coordinator { return h.coord }

// Widgets returns the mounted widgets in order.
func (h *Host) Widgets() []*Widget { return h.widgets }

// Status returns the status line text.
func (h *Host) Status() string { return h.status }

// SetStatus replaces the status line text.
func (h *Host) SetStatus(s string) { h.status = s }

// Mount attaches p to the host with a surface node. Nodes for its list
// items are created so the active item can be tracked as a descendant.
func (h *Host) Mount(p *popup.Popup, body string) *Widget {
	w := &Widget{Popup: p, Body: body}
	w.surface = h.doc.Root().Append(&node.Node{ID: p.ID() + "-surface"})
	p.SetSurface(w.surface)
	if list := p.List(); list != nil {
		items := append([]listnav.Item(nil), list.Items()...)
		for i := range items {
			n := w.surface.Append(&node.Node{ID: p.ID() + "-item-" + items[i].ID()})
			items[i].Node = n
			w.items = append(w.items, n)
		}
		p.SetItems(items)
	}
	h.widgets = append(h.widgets, w)
	return w
}

// AddTrigger adds a trigger button labeled label to w.
func (h *Host) AddTrigger(w *Widget, id, label string, payload any) *popup.Trigger {
	kind := node.KindButton
	if w.Popup.Kind() == popup.Combobox {
		kind = node.KindTextInput
		if w.input == nil {
			ti := textinput.New()
			ti.Placeholder = label
			ti.Prompt = ""
			ti.CharLimit = 64
			w.input = &ti
		}
	}
	n := h.doc.Root().Append(&node.Node{ID: id, Kind: kind, Focusable: true})
	w.triggers = append(w.triggers, &triggerView{id: id, label: label, node: n})
	t := w.Popup.AddTrigger(id, n, payload)
	if h.doc.ActiveElement() == nil {
		h.doc.Focus(n)
	}
	return t
}

// Init implements tea.Model.
func (h *Host) Init() tea.Cmd {
	h.layout()
	cmd := h.sched.Flush()
	for _, w := range h.widgets {
		if w.input != nil {
			return tea.Batch(cmd, textinput.Blink)
		}
	}
	return cmd
}

// Update implements tea.Model.
func (h *Host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width, h.height = msg.Width, msg.Height

	case timer.FiredMsg:
		h.sched.Fire(msg)

	case tea.MouseMsg:
		h.handleMouse(msg)

	case tea.KeyMsg:
		if cmd := h.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	default:
		for _, w := range h.widgets {
			if w.input != nil {
				var cmd tea.Cmd
				*w.input, cmd = w.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	h.afterEvent()
	cmds = append(cmds, h.sched.Flush())
	if h.quitting {
		cmds = append(cmds, tea.Quit)
	}
	return h, tea.Batch(cmds...)
}

// afterEvent brings layout, focus and input views in line with the engine.
func (h *Host) afterEvent() {
	h.layout()
	for _, w := range h.widgets {
		w.Popup.Check()
		h.syncInput(w)
	}
}

func (h *Host) syncInput(w *Widget) {
	if w.input == nil || len(w.triggers) == 0 {
		return
	}
	n := w.triggers[0].node
	if w.input.Value() != n.Text {
		w.input.SetValue(n.Text)
		w.input.CursorEnd()
	}
	if h.doc.ActiveElement() == n {
		w.input.Focus()
	} else {
		w.input.Blur()
	}
}

// widgetFor returns the widget owning n and, for triggers, the trigger.
func (h *Host) widgetFor(n *node.Node) (*Widget, *triggerView) {
	if n == nil {
		return nil, nil
	}
	for _, w := range h.widgets {
		for _, t := range w.triggers {
			if t.node == n {
				return w, t
			}
		}
		if w.surface.Contains(n) {
			return w, nil
		}
	}
	return nil, nil
}

func (w *Widget) itemIndex(n *node.Node) int {
	for i, it := range w.items {
		if it == n {
			return i
		}
	}
	return -1
}

func (h *Host) shutdown() {
	for _, w := range h.widgets {
		w.Popup.Dispose()
	}
	h.quitting = true
}
