package templatemodal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/deCybercop/wp-calypso/internal/blocks"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/deCybercop/wp-calypso/internal/placeholders"
)

const (
	listWidth        = 32
	minPreviewWidth  = 20
	minPreviewHeight = 3
)

// PreviewMarkdown returns the markdown preview of a template body with site
// information substituted. Templates without content have no preview.
func (m Model) PreviewMarkdown(slug string) string {
	tpl, ok := m.templates[slug]
	if !ok || !tpl.HasContent() {
		return ""
	}
	body := placeholders.Replace(*tpl.Content, m.cfg.SiteInformation)
	return output.BlocksMarkdown(blocks.Parse(body))
}

// renderPreview renders the focused template in the background
func (m Model) renderPreview() tea.Cmd {
	if !m.ShowPreview || !m.State.IsOpen || m.preview.Width < minPreviewWidth {
		return nil
	}
	tpl, ok := m.Focused()
	if !ok || tpl.Slug == m.previewSlug {
		return nil
	}
	if _, cached := m.previews[tpl.Slug]; cached {
		return func() tea.Msg {
			return PreviewRenderedMsg{ModalID: m.ID, Slug: tpl.Slug, Width: m.preview.Width, Content: m.previews[tpl.Slug]}
		}
	}

	id, slug, width := m.ID, tpl.Slug, m.preview.Width
	md := m.PreviewMarkdown(slug)
	return func() tea.Msg {
		if md == "" {
			return PreviewRenderedMsg{ModalID: id, Slug: slug, Width: width}
		}
		rendered, err := output.RenderMarkdownWithWidth(md, width)
		return PreviewRenderedMsg{ModalID: id, Slug: slug, Width: width, Content: rendered, Error: err}
	}
}

func (m Model) handlePreviewRendered(msg PreviewRenderedMsg) (tea.Model, tea.Cmd) {
	if msg.ModalID != m.ID || msg.Width != m.preview.Width {
		return m, nil
	}
	content := msg.Content
	if msg.Error != nil {
		content = msg.Error.Error()
	} else {
		m.previews[msg.Slug] = content
	}
	if tpl, ok := m.Focused(); ok && tpl.Slug == msg.Slug {
		m.previewSlug = msg.Slug
		m.preview.SetContent(content)
		m.preview.GotoTop()
	}
	return m, nil
}

// resizePreview fits the preview pane beside the template list
func (m *Model) resizePreview() {
	w := m.Width - listWidth - 6
	h := m.Height - 6
	if !m.ShowPreview || w < minPreviewWidth || h < minPreviewHeight {
		m.preview.Width, m.preview.Height = 0, 0
		return
	}
	m.preview.Width, m.preview.Height = w, h
}
