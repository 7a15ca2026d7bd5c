package templatemodal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/deCybercop/wp-calypso/internal/workflow"
	"github.com/deCybercop/wp-calypso/pkg/templatemodal/keymap"
)

// currentContext returns the keymap context for the current phase
func (m Model) currentContext() keymap.Context {
	switch m.phase {
	case workflow.PhaseLoading:
		return keymap.ContextLoading
	case workflow.PhaseError:
		return keymap.ContextError
	default:
		return keymap.ContextList
	}
}

// handleKey processes key input through the keymap registry
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.State.IsOpen {
		if msg.Type == tea.KeyCtrlC {
			m.stopResolution()
			return m, tea.Quit
		}
		return m, nil
	}
	cmd, found := m.deps.Keymap.Lookup(msg, m.currentContext())
	if !found {
		return m, nil
	}
	return m.executeCommand(cmd)
}

// executeCommand runs a keymap command
func (m Model) executeCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdQuit:
		m.stopResolution()
		return m, tea.Quit

	case keymap.CmdClose:
		return m.CloseModal()

	case keymap.CmdToggleHelp:
		m.HelpOpen = !m.HelpOpen
		return m, nil

	case keymap.CmdTogglePreview:
		m.ShowPreview = !m.ShowPreview
		m.resizePreview()
		return m, m.renderPreview()

	case keymap.CmdCursorDown:
		return m.moveCursor(m.Cursor + 1)

	case keymap.CmdCursorUp:
		return m.moveCursor(m.Cursor - 1)

	case keymap.CmdCursorTop:
		return m.moveCursor(0)

	case keymap.CmdCursorBottom:
		return m.moveCursor(len(m.cfg.Templates) - 1)

	case keymap.CmdSelect:
		tpl, ok := m.Focused()
		if !ok {
			return m, nil
		}
		return m.SelectTemplate(tpl.Slug)
	}
	return m, nil
}

func (m Model) moveCursor(to int) (tea.Model, tea.Cmd) {
	if n := len(m.cfg.Templates); to >= n {
		to = n - 1
	}
	if to < 0 {
		to = 0
	}
	m.Cursor = to
	return m, m.renderPreview()
}
