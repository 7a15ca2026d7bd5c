package editor

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deCybercop/wp-calypso/internal/blocks"
	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/models"
)

func setupEditor(t *testing.T, content string) (*Editor, *db.DB) {
	t.Helper()
	database, err := db.Initialize(filepath.Join(t.TempDir()))
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	post := &models.Post{Title: "Draft", Meta: map[string]any{"keep": "me"}, Blocks: blocks.Parse(content)}
	if err := database.CreatePost(post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	ed, err := Open(database, post.ID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return ed, database
}

func TestEditMetadataMerges(t *testing.T) {
	ed, database := setupEditor(t, "")

	if err := ed.EditMetadata(map[string]any{"_starter_page_template": "about"}); err != nil {
		t.Fatalf("EditMetadata failed: %v", err)
	}

	stored, err := database.GetPost(ed.Post().ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if stored.Meta["keep"] != "me" {
		t.Errorf("existing meta lost: %v", stored.Meta)
	}
	if stored.Meta["_starter_page_template"] != "about" {
		t.Errorf("template meta = %v", stored.Meta["_starter_page_template"])
	}
}

func TestEditTitle(t *testing.T) {
	ed, database := setupEditor(t, "")

	if err := ed.EditTitle("Acme Bakery"); err != nil {
		t.Fatalf("EditTitle failed: %v", err)
	}
	stored, _ := database.GetPost(ed.Post().ID)
	if stored.Title != "Acme Bakery" {
		t.Errorf("Title = %q", stored.Title)
	}
}

func TestInsertBlocksAtRoot(t *testing.T) {
	ed, database := setupEditor(t, `<!-- wp:paragraph --><p>existing</p><!-- /wp:paragraph -->`)

	tpl := blocks.Parse(`<!-- wp:heading --><h2>new</h2><!-- /wp:heading -->`)
	if err := ed.InsertBlocks(tpl, 0, ""); err != nil {
		t.Fatalf("InsertBlocks failed: %v", err)
	}

	stored, _ := database.GetPost(ed.Post().ID)
	if len(stored.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(stored.Blocks))
	}
	if stored.Blocks[0].Name != "core/heading" || stored.Blocks[1].Name != "core/paragraph" {
		t.Errorf("order = %s, %s", stored.Blocks[0].Name, stored.Blocks[1].Name)
	}
}

func TestInsertBlocksIntoContainer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty container",
			content: `<!-- wp:a8c/post-content --><div class="post"></div><!-- /wp:a8c/post-content -->`,
			want:    []string{"core/heading"},
		},
		{
			name: "container with children",
			content: `<!-- wp:a8c/post-content --><div class="post">` +
				`<!-- wp:paragraph --><p>old</p><!-- /wp:paragraph -->` +
				`</div><!-- /wp:a8c/post-content -->`,
			want: []string{"core/heading", "core/paragraph"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ed, database := setupEditor(t, tc.content)
			container := ed.PostContentBlock()
			if container == "" {
				t.Fatal("PostContentBlock() returned empty")
			}

			tpl := blocks.Parse(`<!-- wp:heading --><h2>new</h2><!-- /wp:heading -->`)
			if err := ed.InsertBlocks(tpl, 0, container); err != nil {
				t.Fatalf("InsertBlocks failed: %v", err)
			}

			stored, _ := database.GetPost(ed.Post().ID)
			pc := blocks.Find(stored.Blocks, PostContentName)
			if pc == nil {
				t.Fatal("post content block missing after reload")
			}
			var got []string
			for _, b := range pc.InnerBlocks {
				got = append(got, b.Name)
			}
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("children = %v, want %v", got, tc.want)
			}
			if !strings.Contains(pc.InnerHTML, `<div class="post">`) {
				t.Errorf("wrapper markup lost: %q", pc.InnerHTML)
			}
		})
	}
}

func TestInsertBlocksMissingContainer(t *testing.T) {
	ed, _ := setupEditor(t, "")
	err := ed.InsertBlocks(blocks.Parse(`<!-- wp:spacer /-->`), 0, "nope")
	if !errors.Is(err, ErrContainerNotFound) {
		t.Errorf("err = %v, want ErrContainerNotFound", err)
	}
}

func TestPostContentBlockAbsent(t *testing.T) {
	ed, _ := setupEditor(t, `<!-- wp:paragraph --><p>x</p><!-- /wp:paragraph -->`)
	if id := ed.PostContentBlock(); id != "" {
		t.Errorf("PostContentBlock() = %q, want empty", id)
	}
}

func TestInsertMarkers(t *testing.T) {
	s := func(v string) *string { return &v }
	content := []*string{s("<div>"), nil, s("</div>")}

	got := insertMarkers(content, 5, 2)
	nils := 0
	for _, part := range got {
		if part == nil {
			nils++
		}
	}
	if nils != 3 || got[len(got)-1] == nil || *got[len(got)-1] != "</div>" {
		t.Errorf("insertMarkers appended wrongly: %d markers, %v", nils, got)
	}
}
