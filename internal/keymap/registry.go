package keymap

import (
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Action is an engine-level intent a key maps to.
type Action string

const (
	ActionNone         Action = ""
	ActionNext         Action = "next"
	ActionPrev         Action = "prev"
	ActionFirst        Action = "first"
	ActionLast         Action = "last"
	ActionPageDown     Action = "page-down"
	ActionPageUp       Action = "page-up"
	ActionSelect       Action = "select"
	ActionDismiss      Action = "dismiss"
	ActionOpen         Action = "open"
	ActionOpenSubmenu  Action = "open-submenu"
	ActionCloseSubmenu Action = "close-submenu"
)

var knownActions = map[Action]bool{
	ActionNext: true, ActionPrev: true, ActionFirst: true, ActionLast: true,
	ActionPageDown: true, ActionPageUp: true, ActionSelect: true,
	ActionDismiss: true, ActionOpen: true, ActionOpenSubmenu: true,
	ActionCloseSubmenu: true,
}

// IsKnownAction reports whether s names an Action.
func IsKnownAction(s string) bool {
	return knownActions[Action(s)]
}

// Binding maps a key to an action within a context.
type Binding struct {
	Key     string // e.g. "down", "ctrl+n", "home"
	Action  Action
	Context string // ContextGlobal, ContextListVertical, ...
}

// Contexts bindings are grouped under. Lookups pass the most specific
// context first.
const (
	ContextGlobal         = "global"
	ContextListVertical   = "list.vertical"
	ContextListHorizontal = "list.horizontal"
	ContextTrigger        = "trigger"
	ContextMenu           = "menu"
)

// Registry manages key bindings and resolves keys to actions.
type Registry struct {
	bindings      map[string][]Binding // context -> bindings
	userOverrides map[string]Action    // key -> action
	mu            sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings:      make(map[string][]Binding),
		userOverrides: make(map[string]Action),
	}
}

// RegisterBinding adds a key binding.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Context] = append(r.bindings[b.Context], b)
}

// SetUserOverride sets a user-configured key override. Unknown actions are
// ignored and reported as false.
func (r *Registry) SetUserOverride(key, action string) bool {
	if !IsKnownAction(action) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userOverrides[key] = Action(action)
	return true
}

// Resolve returns the action bound to key. User overrides win, then each
// context in order, then global bindings.
func (r *Registry) Resolve(key string, contexts ...string) Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.userOverrides[key]; ok {
		return a
	}
	for _, ctx := range contexts {
		if ctx == "" || ctx == ContextGlobal {
			continue
		}
		if a, ok := r.findInContext(key, ctx); ok {
			return a
		}
	}
	a, _ := r.findInContext(key, ContextGlobal)
	return a
}

// ResolveMsg is Resolve for a bubbletea key message.
func (r *Registry) ResolveMsg(msg tea.KeyMsg, contexts ...string) Action {
	return r.Resolve(Normalize(msg), contexts...)
}

func (r *Registry) findInContext(key, context string) (Action, bool) {
	for _, b := range r.bindings[context] {
		if b.Key == key {
			return b.Action, true
		}
	}
	return ActionNone, false
}

// BindingsForContext returns all bindings for a given context.
func (r *Registry) BindingsForContext(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Binding(nil), r.bindings[context]...)
}

// AllContexts returns all contexts that have bindings, sorted.
func (r *Registry) AllContexts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contexts := make([]string, 0, len(r.bindings))
	for ctx := range r.bindings {
		contexts = append(contexts, ctx)
	}
	sort.Strings(contexts)
	return contexts
}
