package keymap

// DefaultBindings returns the default key bindings for the template modal
func DefaultBindings() []Binding {
	return []Binding{
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal, Description: "Quit"},
		{Key: "esc", Command: CmdClose, Context: ContextGlobal, Description: "Close without a template"},
		{Key: "?", Command: CmdToggleHelp, Context: ContextGlobal, Description: "Toggle help"},

		{Key: "j", Command: CmdCursorDown, Context: ContextList, Description: "Next template"},
		{Key: "down", Command: CmdCursorDown, Context: ContextList, Description: "Next template"},
		{Key: "k", Command: CmdCursorUp, Context: ContextList, Description: "Previous template"},
		{Key: "up", Command: CmdCursorUp, Context: ContextList, Description: "Previous template"},
		{Key: "g g", Command: CmdCursorTop, Context: ContextList, Description: "First template"},
		{Key: "home", Command: CmdCursorTop, Context: ContextList, Description: "First template"},
		{Key: "G", Command: CmdCursorBottom, Context: ContextList, Description: "Last template"},
		{Key: "end", Command: CmdCursorBottom, Context: ContextList, Description: "Last template"},
		{Key: "enter", Command: CmdSelect, Context: ContextList, Description: "Use template"},
		{Key: "p", Command: CmdTogglePreview, Context: ContextList, Description: "Toggle preview"},
		{Key: "q", Command: CmdClose, Context: ContextList, Description: "Close without a template"},

		// Error shows the list again so a different template can be tried
		{Key: "j", Command: CmdCursorDown, Context: ContextError, Description: "Next template"},
		{Key: "down", Command: CmdCursorDown, Context: ContextError, Description: "Next template"},
		{Key: "k", Command: CmdCursorUp, Context: ContextError, Description: "Previous template"},
		{Key: "up", Command: CmdCursorUp, Context: ContextError, Description: "Previous template"},
		{Key: "g g", Command: CmdCursorTop, Context: ContextError, Description: "First template"},
		{Key: "home", Command: CmdCursorTop, Context: ContextError, Description: "First template"},
		{Key: "G", Command: CmdCursorBottom, Context: ContextError, Description: "Last template"},
		{Key: "end", Command: CmdCursorBottom, Context: ContextError, Description: "Last template"},
		{Key: "enter", Command: CmdSelect, Context: ContextError, Description: "Retry with template"},
		{Key: "p", Command: CmdTogglePreview, Context: ContextError, Description: "Toggle preview"},
		{Key: "q", Command: CmdClose, Context: ContextError, Description: "Close without a template"},
	}
}

// RegisterDefaults registers the default bindings on r
func RegisterDefaults(r *Registry) {
	r.RegisterBindings(DefaultBindings())
}

// HelpLines returns "key  description" lines for context, one per command
func HelpLines(r *Registry, context Context) []string {
	seen := make(map[Command]int)
	var lines []string
	var keys [][]string
	for _, b := range r.BindingsForContext(context) {
		if i, ok := seen[b.Command]; ok {
			keys[i] = append(keys[i], b.Key)
			continue
		}
		seen[b.Command] = len(lines)
		lines = append(lines, b.Description)
		keys = append(keys, []string{b.Key})
	}
	out := make([]string, len(lines))
	for i, desc := range lines {
		out[i] = joinKeys(keys[i]) + "  " + desc
	}
	return out
}

func joinKeys(keys []string) string {
	s := keys[0]
	for _, k := range keys[1:] {
		s += "/" + k
	}
	return s
}
