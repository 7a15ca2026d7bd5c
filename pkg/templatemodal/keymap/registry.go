package keymap

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const sequenceTimeout = 500 * time.Millisecond

// Context represents a modal phase for keybindings
type Context string

const (
	ContextGlobal  Context = "global"
	ContextList    Context = "list"    // template list is shown
	ContextLoading Context = "loading" // assets are being resolved
	ContextError   Context = "error"   // last resolution failed, list shown again
)

// Command represents a named command that can be triggered by key bindings
type Command string

const (
	CmdQuit          Command = "quit"
	CmdCursorDown    Command = "cursor-down"
	CmdCursorUp      Command = "cursor-up"
	CmdCursorTop     Command = "cursor-top"
	CmdCursorBottom  Command = "cursor-bottom"
	CmdSelect        Command = "select"
	CmdClose         Command = "close"
	CmdTogglePreview Command = "toggle-preview"
	CmdToggleHelp    Command = "toggle-help"
)

// Binding maps a key or key sequence to a command in a specific context
type Binding struct {
	Key         string  // e.g., "enter", "ctrl+c", "g g"
	Command     Command
	Context     Context
	Description string
}

// Registry manages key bindings and command dispatch
type Registry struct {
	bindings      map[Context][]Binding
	userOverrides map[string]Command // "context:key" -> command
	pendingKey    string
	pendingTime   time.Time
	mu            sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		bindings:      make(map[Context][]Binding),
		userOverrides: make(map[string]Command),
	}
}

// RegisterBindings adds key bindings
func (r *Registry) RegisterBindings(bindings []Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range bindings {
		r.bindings[b.Context] = append(r.bindings[b.Context], b)
	}
}

// SetUserOverride binds key to cmd in context, ahead of the defaults
func (r *Registry) SetUserOverride(context Context, key string, cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userOverrides[string(context)+":"+key] = cmd
}

// Lookup finds the command for key in the active context.
// Checks: user overrides -> context bindings -> global bindings
func (r *Registry) Lookup(key tea.KeyMsg, active Context) (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keyStr := KeyToString(key)

	if r.pendingKey != "" {
		pending := r.pendingKey
		r.pendingKey = ""
		if time.Since(r.pendingTime) < sequenceTimeout {
			if cmd, found := r.findCommand(pending+" "+keyStr, active); found {
				return cmd, true
			}
		}
	}

	if r.isSequenceStart(keyStr, active) {
		r.pendingKey = keyStr
		r.pendingTime = time.Now()
		return "", false
	}

	return r.findCommand(keyStr, active)
}

func (r *Registry) findCommand(key string, active Context) (Command, bool) {
	for _, ctx := range []Context{active, ContextGlobal} {
		if cmd, ok := r.userOverrides[string(ctx)+":"+key]; ok {
			return cmd, true
		}
	}
	for _, ctx := range []Context{active, ContextGlobal} {
		for _, b := range r.bindings[ctx] {
			if b.Key == key {
				return b.Command, true
			}
		}
	}
	return "", false
}

func (r *Registry) isSequenceStart(key string, active Context) bool {
	prefix := key + " "
	for _, ctx := range []Context{active, ContextGlobal} {
		for _, b := range r.bindings[ctx] {
			if strings.HasPrefix(b.Key, prefix) {
				return true
			}
		}
	}
	for k := range r.userOverrides {
		if _, bound, ok := strings.Cut(k, ":"); ok && strings.HasPrefix(bound, prefix) {
			return true
		}
	}
	return false
}

// BindingsForContext returns the bindings of context followed by the global ones
func (r *Registry) BindingsForContext(context Context) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := append([]Binding{}, r.bindings[context]...)
	if context != ContextGlobal {
		result = append(result, r.bindings[ContextGlobal]...)
	}
	return result
}

// KeyToString converts a tea.KeyMsg to the string form used in bindings
func KeyToString(key tea.KeyMsg) string {
	switch key.Type {
	case tea.KeyCtrlC:
		return "ctrl+c"
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeySpace:
		return "space"
	case tea.KeyTab:
		return "tab"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyHome:
		return "home"
	case tea.KeyEnd:
		return "end"
	case tea.KeyRunes:
		return string(key.Runes)
	default:
		return key.String()
	}
}
