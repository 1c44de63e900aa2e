package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/disclosure/internal/config"
	"github.com/wilbur182/disclosure/internal/controlled"
	"github.com/wilbur182/disclosure/internal/features"
	"github.com/wilbur182/disclosure/internal/forms"
	"github.com/wilbur182/disclosure/internal/hoverintent"
	"github.com/wilbur182/disclosure/internal/keymap"
	"github.com/wilbur182/disclosure/internal/listnav"
	"github.com/wilbur182/disclosure/internal/popup"
	"github.com/wilbur182/disclosure/internal/styles"
	"github.com/wilbur182/disclosure/internal/teaui"
)

var fruits = []string{
	"apple", "apricot", "banana", "blackberry", "blueberry", "cherry",
	"date", "fig", "grape", "kiwi", "lemon", "mango", "orange", "peach",
	"pear", "plum",
}

// lab is the demo program: one widget per popup kind on a teaui host,
// reloaded when the config file changes.
type lab struct {
	host    *teaui.Host
	cfgPath string
	km      *keymap.Registry
	logger  *slog.Logger
	watch   <-chan tea.Msg
	fruit   *forms.State
}

func newLab(cfg *config.Config, cfgPath string, logger *slog.Logger) *lab {
	l := &lab{
		cfgPath: cfgPath,
		km:      keymap.NewDefault(cfg.Keymap.Overrides),
		logger:  logger,
		fruit:   forms.NewState("fruit", nil, forms.Required),
	}
	l.host = teaui.New(teaui.Options{
		Title:  "popuplab  tab: focus  enter: open  esc: dismiss  q: quit",
		Logger: logger,
		Keymap: l.km,
	})
	l.build(cfg)
	return l
}

func (l *lab) opts(kind popup.Kind, cfg *config.Config, o popup.Options) popup.Options {
	o = l.host.PopupOptions(o)
	if kind.Capabilities().Has(popup.CapHover) {
		hover := hoverFor(kind, cfg)
		o.Hover = &hover
	}
	if kind.Capabilities().Has(popup.CapList) {
		o.List.Loop = cfg.List.Loop
		o.List.Orientation = listnav.ParseOrientation(cfg.List.Orientation)
		o.List.TypeaheadTimeout = cfg.List.TypeaheadTimeout
		o.List.PageSize = cfg.List.PageSize
	}
	o.PatientClickThreshold = cfg.Hover.PatientClickThreshold
	o.FrameDelay = cfg.Transition.FrameDelay
	o.ExitTimeout = cfg.Transition.ExitTimeout
	if o.ExitTimeout == 0 {
		o.ExitTimeout = -1
	}
	return o
}

func (l *lab) build(cfg *config.Config) {
	h := l.host

	tip := popup.New(popup.Tooltip, l.opts(popup.Tooltip, cfg, popup.Options{ID: "tooltip"}))
	h.AddTrigger(h.Mount(tip, "Saves the current file"), "save", "Save", nil)

	card := popup.New(popup.PreviewCard, l.opts(popup.PreviewCard, cfg, popup.Options{ID: "card"}))
	h.AddTrigger(h.Mount(card, "wilbur182\nMaintainer, 42 repositories"), "user", "@wilbur182", nil)

	info := popup.New(popup.Popover, l.opts(popup.Popover, cfg, popup.Options{ID: "info", OpenOnHover: true}))
	infoW := h.Mount(info, "One popover, two triggers.\nThe status line shows the payload.")
	h.AddTrigger(infoW, "info-a", "Info A", "first")
	h.AddTrigger(infoW, "info-b", "Info B", "second")

	edit := popup.New(popup.Menu, l.opts(popup.Menu, cfg, popup.Options{
		ID: "edit",
		Items: []listnav.Item{
			{Label: "Undo"}, {Label: "Redo", Disabled: true},
			{Label: "Cut"}, {Label: "Copy"}, {Label: "Paste"},
		},
		List: listnav.Options{OnSelect: l.report("edit")},
	}))
	h.AddTrigger(h.Mount(edit, ""), "edit", "Edit", nil)

	ctx := popup.New(popup.ContextMenu, l.opts(popup.ContextMenu, cfg, popup.Options{
		ID:    "context",
		Items: listnav.Labels("Inspect", "Reload", "Close"),
		List:  listnav.Options{OnSelect: l.report("context")},
	}))
	h.AddTrigger(h.Mount(ctx, ""), "area", "Right-click me", nil)

	sel := popup.New(popup.Select, l.opts(popup.Select, cfg, popup.Options{
		ID:    "fruit",
		Items: listnav.Labels(fruits...),
		Field: l.fruit,
		List:  listnav.Options{OnSelect: l.report("fruit")},
	}))
	h.AddTrigger(h.Mount(sel, ""), "fruit", "Fruit", nil)

	search := popup.New(popup.Combobox, l.opts(popup.Combobox, cfg, popup.Options{
		ID:    "search",
		Items: listnav.Labels(fruits...),
		List:  listnav.Options{AllowEscape: true, OnSelect: l.report("search")},
	}))
	h.AddTrigger(h.Mount(search, ""), "search", "Search fruit", nil)

	dialog := popup.New(popup.Dialog, l.opts(popup.Dialog, cfg, popup.Options{ID: "dialog"}))
	h.AddTrigger(h.Mount(dialog, "Delete this file?\nesc cancels"), "delete", "Delete", nil)
}

func (l *lab) report(name string) func(int, listnav.Item, *controlled.Details) {
	return func(_ int, it listnav.Item, d *controlled.Details) {
		l.host.SetStatus(fmt.Sprintf("%s: %s (%s)", name, it.Label, d.Reason))
	}
}

// hoverFor maps config onto a kind's hover timings. Tooltips and preview
// cards have their own delays; other kinds keep their defaults unless the
// shared hover delay is set.
func hoverFor(kind popup.Kind, cfg *config.Config) hoverintent.Config {
	switch kind {
	case popup.Tooltip:
		return hoverintent.FromConfig(cfg.Hover, &cfg.Tooltip)
	case popup.PreviewCard:
		return hoverintent.FromConfig(cfg.Hover, &cfg.PreviewCard)
	}
	c := hoverintent.FromConfig(cfg.Hover, nil)
	if cfg.Hover.OpenDelay == 0 && cfg.Hover.CloseDelay == 0 {
		def := popup.DefaultHover(kind)
		c.OpenDelay, c.CloseDelay = def.OpenDelay, def.CloseDelay
	}
	return c
}

// reload re-reads the config file and applies what can change at runtime:
// feature flags, theme, key overrides and hover timings.
func (l *lab) reload() error {
	cfg, err := loadConfig(l.cfgPath)
	if err != nil {
		return err
	}
	features.Reload(cfg)
	styles.ApplyThemeWithOverrides(cfg.UI.Theme.Name, cfg.UI.Theme.Overrides)
	for key, action := range cfg.Keymap.Overrides {
		if !l.km.SetUserOverride(key, action) {
			l.logger.Warn("popuplab: unknown key override", "key", key, "action", action)
		}
	}
	for _, w := range l.host.Widgets() {
		if hi := w.Popup.Hover(); hi != nil {
			hi.SetConfig(hoverFor(w.Popup.Kind(), cfg))
		}
	}
	return nil
}

func (l *lab) Init() tea.Cmd {
	if l.watch == nil {
		return l.host.Init()
	}
	return tea.Batch(l.host.Init(), config.Wait(l.watch))
}

func (l *lab) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(config.ChangedMsg); ok {
		if err := l.reload(); err != nil {
			l.logger.Warn("popuplab: config reload failed", "err", err)
			l.host.SetStatus("config: " + err.Error())
		} else {
			l.logger.Info("popuplab: config reloaded")
			l.host.SetStatus("config reloaded")
		}
		return l, config.Wait(l.watch)
	}
	_, cmd := l.host.Update(msg)
	return l, cmd
}

func (l *lab) View() string {
	return l.host.View()
}
