package keymap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLookupDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	tests := []struct {
		key     tea.KeyMsg
		context Context
		want    Command
		found   bool
	}{
		{runes("j"), ContextList, CmdCursorDown, true},
		{tea.KeyMsg{Type: tea.KeyDown}, ContextList, CmdCursorDown, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, ContextList, CmdSelect, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, ContextError, CmdSelect, true},
		{runes("p"), ContextError, CmdTogglePreview, true},
		{runes("G"), ContextError, CmdCursorBottom, true},
		{tea.KeyMsg{Type: tea.KeyHome}, ContextError, CmdCursorTop, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, ContextLoading, "", false},
		{tea.KeyMsg{Type: tea.KeyEsc}, ContextLoading, CmdClose, true},
		{runes("q"), ContextList, CmdClose, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, ContextList, CmdQuit, true},
	}

	for _, tc := range tests {
		cmd, found := r.Lookup(tc.key, tc.context)
		if cmd != tc.want || found != tc.found {
			t.Errorf("Lookup(%q, %s) = %q, %v; want %q, %v",
				KeyToString(tc.key), tc.context, cmd, found, tc.want, tc.found)
		}
	}
}

func TestLookupSequence(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	if _, found := r.Lookup(runes("g"), ContextList); found {
		t.Fatal("first key of a sequence should not resolve")
	}
	cmd, found := r.Lookup(runes("g"), ContextList)
	if !found || cmd != CmdCursorTop {
		t.Errorf("g g = %q, %v; want %q", cmd, found, CmdCursorTop)
	}
}

func TestLookupSequenceTimeout(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	r.Lookup(runes("g"), ContextList)
	r.pendingTime = time.Now().Add(-time.Second)
	if _, found := r.Lookup(runes("j"), ContextList); !found {
		t.Error("key after an expired sequence should resolve on its own")
	}
}

func TestUserOverrideWins(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	ApplyConfig(r, &Config{Bindings: map[string]string{"list:j": "select", "ctrl+q": "quit"}})

	if cmd, _ := r.Lookup(runes("j"), ContextList); cmd != CmdSelect {
		t.Errorf("override j = %q, want %q", cmd, CmdSelect)
	}
	if cmd, _ := r.Lookup(tea.KeyMsg{Type: tea.KeyCtrlQ}, ContextError); cmd != CmdQuit {
		t.Errorf("global override ctrl+q = %q, want %q", cmd, CmdQuit)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := ConfigPath(dir)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig(missing) failed: %v", err)
	}
	if len(cfg.Bindings) != 0 {
		t.Errorf("missing file bindings = %v", cfg.Bindings)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"bindings":{"list:l":"select"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Bindings["list:l"] != "select" {
		t.Errorf("bindings = %v", cfg.Bindings)
	}
}

func TestHelpLinesGroupsKeys(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	lines := HelpLines(r, ContextList)
	if len(lines) == 0 || lines[0] != "j/down  Next template" {
		t.Errorf("HelpLines()[0] = %q", lines)
	}
}
