// Package templatemodal implements the starter page template modal as a
// Bubble Tea model. Every transition is a message handled in Update; asset
// resolution runs as a cancellable command whose result is dropped once the
// instance has closed or a newer selection has started.
package templatemodal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/deCybercop/wp-calypso/internal/blocks"
	"github.com/deCybercop/wp-calypso/internal/config"
	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/deCybercop/wp-calypso/internal/placeholders"
	"github.com/deCybercop/wp-calypso/internal/tracking"
	"github.com/deCybercop/wp-calypso/internal/workflow"
	"github.com/deCybercop/wp-calypso/pkg/templatemodal/keymap"
	"github.com/google/uuid"
)

// CloseDelay is how long the modal stays open after a template is inserted
const CloseDelay = 300 * time.Millisecond

// TemplateMetaKey is the post meta key recording the chosen template
const TemplateMetaKey = "_starter_page_template"

// Deps are the collaborators a modal instance talks to
type Deps struct {
	Editor  Editor
	Assets  AssetResolver
	Tracker *tracking.Tracker // nil logs events
	Keymap  *keymap.Registry  // nil uses the default bindings
}

// Model is the Bubble Tea model for one modal instance
type Model struct {
	State ModalState
	ID    string

	// Options
	CloseDelay  time.Duration
	QuitOnClose bool // send tea.Quit once closed, for standalone programs

	cfg       *config.StarterPageTemplates
	templates map[string]models.Template
	deps      Deps
	machine   *workflow.StateMachine
	phase     workflow.Phase
	seq       int
	cancel    context.CancelFunc
	inserted  bool

	// UI state
	Cursor      int
	ShowPreview bool
	HelpOpen    bool
	Width       int
	Height      int
	spinner     spinner.Model
	preview     viewport.Model
	previewSlug string
	previews    map[string]string // slug -> rendered markdown
}

// NewModel opens a modal over cfg. The modal starts open only when there is
// at least one template.
func NewModel(cfg *config.StarterPageTemplates, deps Deps) Model {
	if deps.Tracker == nil {
		deps.Tracker = tracking.New(nil)
	}
	if deps.Keymap == nil {
		deps.Keymap = keymap.NewRegistry()
		keymap.RegisterDefaults(deps.Keymap)
	}
	if cfg.TracksUserData != nil {
		deps.Tracker.InitializeWithIdentity(*cfg.TracksUserData)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		ID:          uuid.New().String(),
		CloseDelay:  CloseDelay,
		cfg:         cfg,
		templates:   cfg.TemplatesBySlug(),
		deps:        deps,
		machine:     workflow.New(),
		phase:       workflow.PhaseClosed,
		ShowPreview: true,
		spinner:     sp,
		preview:     viewport.New(0, 0),
		previews:    make(map[string]string),
	}
	if len(cfg.Templates) > 0 {
		m.transition(workflow.PhaseOpen, workflow.EventOpen)
		m.State.IsOpen = true
	}
	return m
}

// Init emits the view event for an open modal and renders the first preview
func (m Model) Init() tea.Cmd {
	if !m.State.IsOpen {
		return nil
	}
	return tea.Batch(m.trackView(), m.renderPreview())
}

// Phase returns the lifecycle phase of the instance
func (m Model) Phase() workflow.Phase {
	return m.phase
}

// Inserted reports whether the selected template's blocks reached the editor
func (m Model) Inserted() bool {
	return m.inserted
}

// Seq returns the number of selections that started an insertion
func (m Model) Seq() int {
	return m.seq
}

// Templates returns the templates in display order
func (m Model) Templates() []models.Template {
	return m.cfg.Templates
}

// Focused returns the template under the cursor
func (m Model) Focused() (models.Template, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.cfg.Templates) {
		return models.Template{}, false
	}
	return m.cfg.Templates[m.Cursor], true
}

// Update handles a message and returns the next model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resizePreview()
		m.previews = make(map[string]string)
		m.previewSlug = ""
		return m, m.renderPreview()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SelectMsg:
		return m.SelectTemplate(msg.Slug)

	case CloseMsg:
		return m.CloseModal()

	case AssetsResolvedMsg:
		return m.handleAssetsResolved(msg)

	case CloseTickMsg:
		return m.handleCloseTick(msg)

	case PreviewRenderedMsg:
		return m.handlePreviewRendered(msg)

	case spinner.TickMsg:
		if !m.State.IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// SelectMsg asks the modal to use the template with Slug
type SelectMsg struct {
	Slug string
}

// CloseMsg asks the modal to close without inserting anything
type CloseMsg struct{}

// SelectTemplate records the choice of slug and, when the template has
// content, starts inserting it. Selections while a previous one is loading
// are ignored.
func (m Model) SelectTemplate(slug string) (Model, tea.Cmd) {
	if !m.State.IsOpen {
		return m, nil
	}
	if !m.machine.Accepts(m.phase, workflow.EventSelect) {
		slog.Debug("templatemodal: select ignored", "phase", m.phase, "slug", slug)
		return m, nil
	}

	track := m.trackSelection(slug)
	tpl, ok := m.templates[slug]
	if !ok {
		slog.Debug("templatemodal: unknown template", "slug", slug)
		return m, track
	}

	if err := m.deps.Editor.EditMetadata(map[string]any{TemplateMetaKey: tpl.Slug}); err != nil {
		slog.Warn("templatemodal: save template choice", "slug", slug, "err", err)
	}

	if !tpl.HasContent() {
		return m, track
	}

	if !m.transition(workflow.PhaseLoading, workflow.EventSelect) {
		return m, track
	}
	m.State.IsLoading = true
	m.State.Error = nil
	m.State.SelectedTemplate = tpl.Slug
	m.inserted = false

	info := m.cfg.SiteInformation
	title := placeholders.Replace(tpl.Title, info)
	parsed := blocks.Parse(placeholders.Replace(*tpl.Content, info))

	m.seq++
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	return m, tea.Batch(track, m.spinner.Tick, m.ensureAssets(ctx, m.seq, title, parsed))
}

// CloseModal closes the modal and records a dismissal. Any pending asset
// resolution is cancelled and its result discarded.
func (m Model) CloseModal() (Model, tea.Cmd) {
	m.close(workflow.EventDismiss)
	cmds := []tea.Cmd{m.trackDismiss()}
	if m.QuitOnClose {
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Sequence(cmds...)
}

func (m *Model) close(event workflow.Event) {
	if !m.machine.IsTerminal(m.phase) {
		m.transition(workflow.PhaseClosed, event)
	}
	m.State.IsOpen = false
	m.stopResolution()
}

// stopResolution cancels the in-flight asset resolution, if any
func (m *Model) stopResolution() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// transition moves to phase, logging and refusing moves the machine rejects
func (m *Model) transition(to workflow.Phase, event workflow.Event) bool {
	if err := m.machine.Validate(m.phase, to, event); err != nil {
		slog.Debug("templatemodal: transition rejected", "modal", m.ID, "err", err,
			"allowed", m.machine.GetAllowedTransitions(m.phase))
		return false
	}
	m.phase = to
	return true
}

// live reports whether a result for (modalID, seq) still applies
func (m Model) live(modalID string, seq int) bool {
	return m.State.IsOpen && modalID == m.ID && seq == m.seq
}

func (m Model) ensureAssets(ctx context.Context, seq int, title string, parsed []models.Block) tea.Cmd {
	id := m.ID
	resolver := m.deps.Assets
	return func() tea.Msg {
		if resolver == nil {
			return AssetsResolvedMsg{ModalID: id, Seq: seq, Title: title, Blocks: parsed}
		}
		resolved, err := resolver.EnsureAssets(ctx, parsed)
		return AssetsResolvedMsg{ModalID: id, Seq: seq, Title: title, Blocks: resolved, Error: err}
	}
}

func (m Model) handleAssetsResolved(msg AssetsResolvedMsg) (tea.Model, tea.Cmd) {
	if !m.live(msg.ModalID, msg.Seq) {
		slog.Debug("templatemodal: stale asset result dropped", "modal", msg.ModalID, "seq", msg.Seq)
		return m, nil
	}
	if msg.Error != nil {
		m.fail(msg.Error)
		return m, nil
	}

	if err := m.insert(msg.Title, msg.Blocks); err != nil {
		m.fail(err)
		return m, nil
	}
	m.inserted = true
	m.stopResolution()
	m.transition(workflow.PhaseLoading, workflow.EventResolved)

	id, seq := m.ID, m.seq
	return m, tea.Tick(m.CloseDelay, func(time.Time) tea.Msg {
		return CloseTickMsg{ModalID: id, Seq: seq}
	})
}

func (m *Model) insert(title string, bs []models.Block) error {
	if err := m.deps.Editor.EditTitle(title); err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	if err := m.deps.Editor.InsertBlocks(bs, 0, m.deps.Editor.PostContentBlock()); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}

func (m *Model) fail(err error) {
	slog.Debug("templatemodal: insertion failed", "modal", m.ID, "err", err)
	m.transition(workflow.PhaseError, workflow.EventFailed)
	m.State.IsLoading = false
	m.State.Error = err
	m.stopResolution()
}

func (m Model) handleCloseTick(msg CloseTickMsg) (tea.Model, tea.Cmd) {
	if !m.live(msg.ModalID, msg.Seq) {
		return m, nil
	}
	m.close(workflow.EventElapsed)
	if m.QuitOnClose {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) trackView() tea.Cmd {
	tracker, seg, vert := m.deps.Tracker, m.cfg.Segment.ID, m.cfg.Vertical.ID
	return func() tea.Msg {
		tracker.TrackView(context.Background(), seg, vert)
		return nil
	}
}

func (m Model) trackSelection(slug string) tea.Cmd {
	tracker, seg, vert := m.deps.Tracker, m.cfg.Segment.ID, m.cfg.Vertical.ID
	return func() tea.Msg {
		tracker.TrackSelection(context.Background(), seg, vert, slug)
		return nil
	}
}

func (m Model) trackDismiss() tea.Cmd {
	tracker, seg, vert := m.deps.Tracker, m.cfg.Segment.ID, m.cfg.Vertical.ID
	return func() tea.Msg {
		tracker.TrackDismiss(context.Background(), seg, vert)
		return nil
	}
}
