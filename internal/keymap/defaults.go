package keymap

// RegisterDefaults installs the standard popup key bindings.
func RegisterDefaults(r *Registry) {
	defaults := []Binding{
		{Key: "esc", Action: ActionDismiss, Context: ContextGlobal},
		{Key: "enter", Action: ActionSelect, Context: ContextGlobal},
		{Key: "space", Action: ActionSelect, Context: ContextGlobal},

		{Key: "down", Action: ActionNext, Context: ContextListVertical},
		{Key: "up", Action: ActionPrev, Context: ContextListVertical},
		{Key: "ctrl+n", Action: ActionNext, Context: ContextListVertical},
		{Key: "ctrl+p", Action: ActionPrev, Context: ContextListVertical},
		{Key: "home", Action: ActionFirst, Context: ContextListVertical},
		{Key: "end", Action: ActionLast, Context: ContextListVertical},
		{Key: "pgdown", Action: ActionPageDown, Context: ContextListVertical},
		{Key: "pgup", Action: ActionPageUp, Context: ContextListVertical},

		{Key: "right", Action: ActionNext, Context: ContextListHorizontal},
		{Key: "left", Action: ActionPrev, Context: ContextListHorizontal},
		{Key: "home", Action: ActionFirst, Context: ContextListHorizontal},
		{Key: "end", Action: ActionLast, Context: ContextListHorizontal},

		// Arrow keys on a closed trigger open the popup
		{Key: "down", Action: ActionOpen, Context: ContextTrigger},
		{Key: "up", Action: ActionOpen, Context: ContextTrigger},
		{Key: "enter", Action: ActionOpen, Context: ContextTrigger},
		{Key: "space", Action: ActionOpen, Context: ContextTrigger},

		{Key: "right", Action: ActionOpenSubmenu, Context: ContextMenu},
		{Key: "left", Action: ActionCloseSubmenu, Context: ContextMenu},
	}
	for _, b := range defaults {
		r.RegisterBinding(b)
	}
}

// NewDefault returns a registry with the default bindings and the given
// user overrides applied.
func NewDefault(overrides map[string]string) *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	for key, action := range overrides {
		r.SetUserOverride(key, action)
	}
	return r
}
