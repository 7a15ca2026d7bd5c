package templatemodal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/deCybercop/wp-calypso/internal/assets"
	"github.com/deCybercop/wp-calypso/internal/config"
	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/deCybercop/wp-calypso/internal/tracking"
	"github.com/deCybercop/wp-calypso/internal/workflow"
)

type fakeEditor struct {
	mu        sync.Mutex
	meta      map[string]any
	title     string
	inserted  []models.Block
	index     int
	container string
	postBlock string
}

func (e *fakeEditor) EditMetadata(patch map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.meta == nil {
		e.meta = map[string]any{}
	}
	for k, v := range patch {
		e.meta[k] = v
	}
	return nil
}

func (e *fakeEditor) EditTitle(title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.title = title
	return nil
}

func (e *fakeEditor) InsertBlocks(bs []models.Block, index int, containerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inserted = append(e.inserted, bs...)
	e.index = index
	e.container = containerID
	return nil
}

func (e *fakeEditor) PostContentBlock() string { return e.postBlock }

type resolverFunc func(ctx context.Context, bs []models.Block) ([]models.Block, error)

func (f resolverFunc) EnsureAssets(ctx context.Context, bs []models.Block) ([]models.Block, error) {
	return f(ctx, bs)
}

var passThrough = resolverFunc(func(_ context.Context, bs []models.Block) ([]models.Block, error) {
	return bs, nil
})

func strPtr(s string) *string { return &s }

func testConfig() *config.StarterPageTemplates {
	return &config.StarterPageTemplates{
		SiteInformation: models.SiteInformation{"site_title": "Acme Bakery"},
		Templates: []models.Template{
			{Slug: "blank", Title: "Blank"},
			{Slug: "about", Title: "About {{site_title}}",
				Content: strPtr(`<!-- wp:heading --><h2>Welcome to {{site_title}}</h2><!-- /wp:heading --><!-- wp:paragraph --><p>{{unknown}}</p><!-- /wp:paragraph -->`)},
			{Slug: "contact", Title: "Contact", Content: strPtr(`<!-- wp:paragraph --><p>Call us</p><!-- /wp:paragraph -->`)},
		},
		Vertical: models.Vertical{ID: "p13v1", Name: "Bakery"},
		Segment:  models.Segment{ID: 1, Slug: "blog"},
	}
}

func newTestModel(t *testing.T, resolver AssetResolver) (Model, *fakeEditor, *tracking.Recorder) {
	t.Helper()
	ed := &fakeEditor{}
	rec := &tracking.Recorder{}
	m := NewModel(testConfig(), Deps{Editor: ed, Assets: resolver, Tracker: tracking.New(rec)})
	m.CloseDelay = time.Millisecond
	return m, ed, rec
}

func TestNewModelOpenState(t *testing.T) {
	m, _, rec := newTestModel(t, passThrough)
	if !m.State.IsOpen || m.State.IsLoading || m.State.Error != nil {
		t.Errorf("initial state = %+v", m.State)
	}
	if m.Phase() != workflow.PhaseOpen {
		t.Errorf("Phase() = %s, want open", m.Phase())
	}

	Drive(m, m.Init())
	if got := rec.Names(); len(got) != 1 || got[0] != tracking.EventModalView {
		t.Errorf("events = %v, want one view event", got)
	}
}

func TestNewModelWithoutTemplatesStaysClosed(t *testing.T) {
	rec := &tracking.Recorder{}
	m := NewModel(&config.StarterPageTemplates{}, Deps{Editor: &fakeEditor{}, Tracker: tracking.New(rec)})
	if m.State.IsOpen {
		t.Error("modal with no templates should start closed")
	}
	if cmd := m.Init(); cmd != nil {
		t.Error("closed modal should not emit a view event")
	}
	if m.View() != "" {
		t.Errorf("View() = %q, want empty", m.View())
	}
}

func TestSelectTemplateWithoutContent(t *testing.T) {
	m, ed, rec := newTestModel(t, passThrough)

	m, cmd := m.SelectTemplate("blank")
	m = Drive(m, cmd)

	if ed.meta[TemplateMetaKey] != "blank" {
		t.Errorf("meta = %v, want template choice saved", ed.meta)
	}
	if !m.State.IsOpen || m.State.IsLoading || m.State.SelectedTemplate != "" {
		t.Errorf("state changed: %+v", m.State)
	}
	if ed.title != "" || len(ed.inserted) != 0 {
		t.Error("nothing should be inserted for a template without content")
	}
	if got := rec.Names(); len(got) != 1 || got[0] != tracking.EventTemplateSelect {
		t.Errorf("events = %v", got)
	}
}

func TestSelectTemplateInsertsAndCloses(t *testing.T) {
	m, ed, rec := newTestModel(t, passThrough)
	ed.postBlock = "post-content-id"

	m, cmd := m.SelectTemplate("about")
	if !m.State.IsLoading || m.State.Error != nil || m.State.SelectedTemplate != "about" {
		t.Fatalf("state after select = %+v", m.State)
	}
	if m.Phase() != workflow.PhaseLoading {
		t.Errorf("Phase() = %s, want loading", m.Phase())
	}

	m = Drive(m, cmd)

	if m.State.IsOpen {
		t.Error("modal should close after insertion")
	}
	if m.Phase() != workflow.PhaseClosed {
		t.Errorf("Phase() = %s, want closed", m.Phase())
	}
	if ed.title != "About Acme Bakery" {
		t.Errorf("title = %q", ed.title)
	}
	if ed.meta[TemplateMetaKey] != "about" {
		t.Errorf("meta = %v", ed.meta)
	}
	if ed.index != 0 || ed.container != "post-content-id" {
		t.Errorf("inserted at %d in %q", ed.index, ed.container)
	}
	if len(ed.inserted) != 2 {
		t.Fatalf("inserted %d blocks, want 2", len(ed.inserted))
	}
	if !strings.Contains(ed.inserted[0].InnerHTML, "Welcome to Acme Bakery") {
		t.Errorf("placeholder not substituted: %q", ed.inserted[0].InnerHTML)
	}
	if !strings.Contains(ed.inserted[1].InnerHTML, "{{unknown}}") {
		t.Errorf("unknown token should pass through: %q", ed.inserted[1].InnerHTML)
	}
	if got := rec.Names(); len(got) != 1 || got[0] != tracking.EventTemplateSelect {
		t.Errorf("events = %v", got)
	}
}

func TestSelectTemplateInsertsAtRootWithoutContainer(t *testing.T) {
	m, ed, _ := newTestModel(t, passThrough)
	m, cmd := m.SelectTemplate("contact")
	Drive(m, cmd)
	if ed.container != "" {
		t.Errorf("container = %q, want root", ed.container)
	}
}

func TestSelectTemplateFailureKeepsModalOpen(t *testing.T) {
	failing := resolverFunc(func(context.Context, []models.Block) ([]models.Block, error) {
		return nil, &assets.ResolutionError{URL: "https://example.com/a.jpg", Err: errors.New("404")}
	})
	m, ed, _ := newTestModel(t, failing)

	m, cmd := m.SelectTemplate("about")
	m = Drive(m, cmd)

	if !m.State.IsOpen || m.State.IsLoading {
		t.Errorf("state after failure = %+v", m.State)
	}
	var resErr *assets.ResolutionError
	if !errors.As(m.State.Error, &resErr) {
		t.Errorf("Error = %v, want *assets.ResolutionError", m.State.Error)
	}
	if m.Phase() != workflow.PhaseError {
		t.Errorf("Phase() = %s, want error", m.Phase())
	}
	if ed.title != "" || len(ed.inserted) != 0 {
		t.Error("failed selection must not touch the document")
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("View() should show the error")
	}

	// Retry clears the error
	m.deps.Assets = passThrough
	m, cmd = m.SelectTemplate("contact")
	if m.State.Error != nil || !m.State.IsLoading {
		t.Errorf("retry state = %+v", m.State)
	}
	m = Drive(m, cmd)
	if m.State.IsOpen || ed.title != "Contact" {
		t.Errorf("retry did not complete: %+v, title %q", m.State, ed.title)
	}
}

func TestSelectWhileLoadingIgnored(t *testing.T) {
	m, ed, rec := newTestModel(t, passThrough)

	m, _ = m.SelectTemplate("about")
	m, cmd := m.SelectTemplate("contact")
	if cmd != nil {
		t.Error("select while loading should do nothing")
	}
	if m.State.SelectedTemplate != "about" || m.Seq() != 1 {
		t.Errorf("state = %+v seq %d", m.State, m.Seq())
	}
	if ed.meta[TemplateMetaKey] != "about" {
		t.Errorf("meta = %v", ed.meta)
	}
	if len(rec.Names()) != 0 {
		t.Errorf("events = %v, want none", rec.Names())
	}
}

func TestCloseModalDiscardsPendingResult(t *testing.T) {
	started := make(chan context.Context, 1)
	blocking := resolverFunc(func(ctx context.Context, bs []models.Block) ([]models.Block, error) {
		started <- ctx
		<-ctx.Done()
		return nil, ctx.Err()
	})
	m, ed, rec := newTestModel(t, blocking)

	m, cmd := m.SelectTemplate("about")
	results := make(chan tea.Msg, 1)
	go func() { results <- Drive(m, cmd) }()
	ctx := <-started

	closed, closeCmd := m.CloseModal()
	Drive(closed, closeCmd)

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("pending resolution was not cancelled")
	}
	<-results

	// The late result arrives at the closed instance and is dropped
	late := AssetsResolvedMsg{ModalID: closed.ID, Seq: closed.Seq(), Blocks: []models.Block{{Name: "core/paragraph"}}}
	updated, follow := closed.Update(late)
	if follow != nil {
		t.Error("stale result should produce no command")
	}
	if updated.(Model).State.IsOpen || len(ed.inserted) != 0 {
		t.Error("stale result must not reopen or insert")
	}

	names := rec.Names()
	if len(names) != 2 || names[1] != tracking.EventModalDismiss {
		t.Errorf("events = %v", names)
	}
}

func TestStaleSequenceDropped(t *testing.T) {
	m, ed, _ := newTestModel(t, passThrough)
	m, _ = m.SelectTemplate("about")

	updated, _ := m.Update(AssetsResolvedMsg{ModalID: m.ID, Seq: m.Seq() - 1, Title: "old"})
	m = updated.(Model)
	if ed.title != "" || !m.State.IsLoading {
		t.Errorf("old sequence applied: title %q, state %+v", ed.title, m.State)
	}

	updated, _ = m.Update(AssetsResolvedMsg{ModalID: "another-modal", Seq: m.Seq(), Title: "other"})
	if ed.title != "" {
		t.Errorf("result for another instance applied: %q", ed.title)
	}
}

func TestCloseModalUnconditional(t *testing.T) {
	m, _, rec := newTestModel(t, passThrough)

	m, cmd := m.CloseModal()
	Drive(m, cmd)
	if m.State.IsOpen || m.Phase() != workflow.PhaseClosed {
		t.Errorf("state = %+v phase %s", m.State, m.Phase())
	}

	m, cmd = m.CloseModal()
	Drive(m, cmd)
	if m.State.IsOpen {
		t.Error("closing twice should leave the modal closed")
	}
	if got := rec.Names(); len(got) != 2 {
		t.Errorf("events = %v, want a dismissal per close", got)
	}

	m, cmd = m.SelectTemplate("about")
	if cmd != nil || m.State.IsLoading {
		t.Error("closed modal must ignore selections")
	}
}

func TestKeyboardSelection(t *testing.T) {
	m, ed, _ := newTestModel(t, passThrough)

	press := func(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
		updated, cmd := m.Update(msg)
		return updated.(Model), cmd
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.Cursor != 1 {
		t.Fatalf("Cursor = %d, want 1", m.Cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 {
		t.Fatalf("Cursor = %d, want clamped at 0", m.Cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.State.IsLoading {
		t.Fatal("enter should start loading")
	}
	if !strings.Contains(m.View(), "Loading…") {
		t.Errorf("View() while loading = %q", m.View())
	}
	m = Drive(m, cmd)
	if ed.title != "About Acme Bakery" {
		t.Errorf("title = %q", ed.title)
	}
}

func TestEscDismisses(t *testing.T) {
	m, _, rec := newTestModel(t, passThrough)
	m.QuitOnClose = true

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = Drive(updated.(Model), cmd)
	if m.State.IsOpen {
		t.Error("esc should close the modal")
	}
	if got := rec.Names(); len(got) != 1 || got[0] != tracking.EventModalDismiss {
		t.Errorf("events = %v", got)
	}
}

func TestViewListsTemplates(t *testing.T) {
	m, _, _ := newTestModel(t, passThrough)
	view := m.View()
	for _, want := range []string{"Select Page Template", "Template", "Blank", "About {{site_title}}", "Contact"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestPreviewMarkdown(t *testing.T) {
	m, _, _ := newTestModel(t, passThrough)
	if got := m.PreviewMarkdown("blank"); got != "" {
		t.Errorf("PreviewMarkdown(blank) = %q", got)
	}
	got := m.PreviewMarkdown("about")
	if !strings.HasPrefix(got, "## Welcome to Acme Bakery") {
		t.Errorf("PreviewMarkdown(about) = %q", got)
	}
	if strings.Contains(got, "wp:") {
		t.Errorf("block comments left in preview: %q", got)
	}
}

func TestInsertedOnlyAfterInsertion(t *testing.T) {
	m, _, _ := newTestModel(t, passThrough)
	m, cmd := m.SelectTemplate("about")
	if m.Inserted() {
		t.Error("Inserted() before resolution")
	}
	m = Drive(m, cmd)
	if !m.Inserted() || m.State.Error != nil {
		t.Errorf("Inserted() = %v, state %+v", m.Inserted(), m.State)
	}

	failing := resolverFunc(func(context.Context, []models.Block) ([]models.Block, error) {
		return nil, errors.New("offline")
	})
	m, _, _ = newTestModel(t, failing)
	m, cmd = m.SelectTemplate("about")
	m = Drive(m, cmd)
	if m.Inserted() {
		t.Error("Inserted() after a failed resolution")
	}
}

// runWithoutUpdate executes cmd and any batched commands, discarding their messages
func runWithoutUpdate(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			runWithoutUpdate(c)
		}
	}
}

func TestResolutionContextCancelled(t *testing.T) {
	tests := []struct {
		name string
		stop func(Model) (Model, tea.Cmd)
	}{
		{"failure", func(m Model) (Model, tea.Cmd) {
			updated, cmd := m.Update(AssetsResolvedMsg{ModalID: m.ID, Seq: m.Seq(), Error: errors.New("offline")})
			return updated.(Model), cmd
		}},
		{"ctrl+c", func(m Model) (Model, tea.Cmd) {
			updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			return updated.(Model), cmd
		}},
		{"success", func(m Model) (Model, tea.Cmd) {
			updated, cmd := m.Update(AssetsResolvedMsg{ModalID: m.ID, Seq: m.Seq(), Title: "About"})
			return updated.(Model), cmd
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			started := make(chan context.Context, 1)
			recording := resolverFunc(func(ctx context.Context, bs []models.Block) ([]models.Block, error) {
				started <- ctx
				return bs, nil
			})
			m, _, _ := newTestModel(t, recording)

			m, cmd := m.SelectTemplate("about")
			runWithoutUpdate(cmd)
			ctx := <-started
			if ctx.Err() != nil {
				t.Fatal("context cancelled before the result was handled")
			}

			tc.stop(m)
			if ctx.Err() == nil {
				t.Error("resolution context still live")
			}
		})
	}
}
