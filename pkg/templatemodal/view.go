package templatemodal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/deCybercop/wp-calypso/pkg/templatemodal/keymap"
)

const modalTitle = "Select Page Template"

// View renders the modal; a closed modal renders nothing
func (m Model) View() string {
	if !m.State.IsOpen {
		return ""
	}

	var body string
	if m.State.IsLoading {
		body = m.spinner.View() + " Loading…"
	} else {
		body = m.viewSelector("Template")
		if m.State.Error != nil {
			body += "\n\n" + errorStyle.Render(ansi.Truncate("Error: "+m.State.Error.Error(), listWidth*2, "…"))
		}
		if m.ShowPreview && m.preview.Width > 0 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, previewStyle.Render(m.preview.View()))
		}
	}

	sections := []string{modalTitleStyle.Render(modalTitle), "", body, "", m.viewFooter()}
	return modalStyle.Render(strings.Join(sections, "\n"))
}

// viewSelector renders the template options. Nothing is rendered without a
// label or without templates.
func (m Model) viewSelector(label string) string {
	if label == "" || len(m.cfg.Templates) == 0 {
		return ""
	}

	lines := []string{labelStyle.Render(label)}
	for i, tpl := range m.cfg.Templates {
		title := ansi.Truncate(tpl.Title, listWidth-2, "…")
		if i == m.Cursor {
			lines = append(lines, selectedStyle.Render("> "+title))
		} else {
			lines = append(lines, "  "+title)
		}
		if i == m.Cursor && tpl.Description != "" {
			lines = append(lines, subtleStyle.Render("  "+ansi.Truncate(tpl.Description, listWidth-2, "…")))
		}
	}
	return lipgloss.NewStyle().Width(listWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) viewFooter() string {
	if m.HelpOpen {
		return helpStyle.Render(strings.Join(keymap.HelpLines(m.deps.Keymap, m.currentContext()), "\n"))
	}
	if m.State.IsLoading {
		return helpStyle.Render("esc close")
	}
	return helpStyle.Render("↑/↓ move · enter use template · p preview · esc close · ? help")
}
