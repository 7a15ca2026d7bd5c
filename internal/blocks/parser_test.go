package blocks

import (
	"testing"

	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ignoreClientIDs compares trees without the generated client IDs
var ignoreClientIDs = cmpopts.IgnoreFields(models.Block{}, "ClientID", "InnerContent")

func TestParseSimple(t *testing.T) {
	doc := `<!-- wp:heading {"level":2} --><h2>Hello</h2><!-- /wp:heading -->` +
		"\n\n" +
		`<!-- wp:paragraph --><p>World</p><!-- /wp:paragraph -->`

	got := Parse(doc)
	want := []models.Block{
		{Name: "core/heading", Attributes: map[string]any{"level": float64(2)}, InnerHTML: "<h2>Hello</h2>"},
		{Name: FreeformName, InnerHTML: "\n\n"},
		{Name: "core/paragraph", InnerHTML: "<p>World</p>"},
	}
	if diff := cmp.Diff(want, got, ignoreClientIDs); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNestedAndVoid(t *testing.T) {
	doc := `<!-- wp:a8c/post-content --><div><!-- wp:spacer {"height":20} /--><!-- wp:paragraph --><p>x</p><!-- /wp:paragraph --></div><!-- /wp:a8c/post-content -->`

	got := Parse(doc)
	if len(got) != 1 {
		t.Fatalf("got %d top-level blocks, want 1", len(got))
	}
	root := got[0]
	if root.Name != "a8c/post-content" {
		t.Errorf("root name = %q", root.Name)
	}
	if root.InnerHTML != "<div></div>" {
		t.Errorf("root InnerHTML = %q", root.InnerHTML)
	}
	if len(root.InnerBlocks) != 2 {
		t.Fatalf("got %d inner blocks, want 2", len(root.InnerBlocks))
	}
	if root.InnerBlocks[0].Name != "core/spacer" || root.InnerBlocks[0].Attributes["height"] != float64(20) {
		t.Errorf("first inner block = %+v", root.InnerBlocks[0])
	}
	if root.InnerBlocks[1].Name != "core/paragraph" {
		t.Errorf("second inner block = %+v", root.InnerBlocks[1])
	}
}

func TestParseFreeform(t *testing.T) {
	got := Parse("<p>legacy</p>\n<!-- wp:separator /-->\n")
	if len(got) != 3 {
		t.Fatalf("got %d blocks, want 3", len(got))
	}
	if got[0].Name != FreeformName || got[0].InnerHTML != "<p>legacy</p>\n" {
		t.Errorf("freeform block = %+v", got[0])
	}
	if got[1].Name != "core/separator" {
		t.Errorf("second block = %+v", got[1])
	}
	if got[2].Name != FreeformName || got[2].InnerHTML != "\n" {
		t.Errorf("trailing whitespace = %+v", got[2])
	}
}

func TestParseUnclosedAndStrayCloser(t *testing.T) {
	got := Parse(`<!-- wp:group --><p>open</p>`)
	if len(got) != 1 || got[0].Name != "core/group" || got[0].InnerHTML != "<p>open</p>" {
		t.Errorf("unclosed block = %+v", got)
	}

	got = Parse(`<!-- /wp:group -->`)
	if len(got) != 1 || got[0].Name != FreeformName {
		t.Errorf("stray closer = %+v", got)
	}
}

func TestParseAssignsClientIDs(t *testing.T) {
	got := Parse(`<!-- wp:paragraph --><p>a</p><!-- /wp:paragraph --><!-- wp:paragraph --><p>b</p><!-- /wp:paragraph -->`)
	if len(got) != 2 {
		t.Fatalf("got %d blocks", len(got))
	}
	if got[0].ClientID == "" || got[0].ClientID == got[1].ClientID {
		t.Errorf("client IDs not unique: %q %q", got[0].ClientID, got[1].ClientID)
	}
}

func TestParseEmpty(t *testing.T) {
	if got := Parse(""); len(got) != 0 {
		t.Errorf("Parse(\"\") = %+v", got)
	}
	if got := Parse("  \n\t"); len(got) != 1 || got[0].Name != FreeformName {
		t.Errorf("Parse(whitespace) = %+v", got)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	docs := []string{
		`<!-- wp:paragraph --><p>World</p><!-- /wp:paragraph -->`,
		`<!-- wp:heading {"level":2} --><h2>Hi</h2><!-- /wp:heading -->`,
		`<!-- wp:spacer /-->`,
		"<!-- wp:heading --><h2>Hi</h2><!-- /wp:heading -->\n\n<!-- wp:a8c/post-content --><div></div><!-- /wp:a8c/post-content -->\n",
		`<!-- wp:a8c/post-content --><div><!-- wp:spacer {"height":20} /--><p>between</p><!-- wp:paragraph --><p>x</p><!-- /wp:paragraph --></div><!-- /wp:a8c/post-content -->`,
	}
	for _, doc := range docs {
		if got := Serialize(Parse(doc)); got != doc {
			t.Errorf("round trip:\n got %s\nwant %s", got, doc)
		}
	}
}

func TestSerializeWithoutInnerContent(t *testing.T) {
	b := []models.Block{{
		Name:        "core/group",
		InnerHTML:   "<div></div>",
		InnerBlocks: []models.Block{{Name: "core/spacer"}},
	}}
	want := `<!-- wp:group --><div></div><!-- wp:spacer /--><!-- /wp:group -->`
	if got := Serialize(b); got != want {
		t.Errorf("Serialize() = %s, want %s", got, want)
	}
}

func TestFindAndCount(t *testing.T) {
	tree := Parse(`<!-- wp:group --><!-- wp:a8c/post-content --><!-- wp:spacer /--><!-- /wp:a8c/post-content --><!-- /wp:group -->`)

	found := Find(tree, "a8c/post-content")
	if found == nil {
		t.Fatal("Find() returned nil")
	}
	if FindByClientID(tree, found.ClientID) != found {
		t.Error("FindByClientID() did not return the same block")
	}
	if Find(tree, "core/missing") != nil {
		t.Error("Find() found a missing block")
	}
	if n := Count(tree); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestWalkModifiesInPlace(t *testing.T) {
	tree := Parse(`<!-- wp:group --><!-- wp:image {"url":"a"} /--><!-- /wp:group -->`)
	Walk(tree, func(b *models.Block) {
		if b.Name == "core/image" {
			b.Attributes["url"] = "b"
		}
	})
	if got := tree[0].InnerBlocks[0].Attributes["url"]; got != "b" {
		t.Errorf("url = %v, want b", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tree := Parse(`<!-- wp:group --><div><!-- wp:image {"url":"a"} /--></div><!-- /wp:group -->`)
	copied := Clone(tree)

	copied[0].InnerBlocks[0].Attributes["url"] = "changed"
	*copied[0].InnerContent[0] = "<section>"

	if tree[0].InnerBlocks[0].Attributes["url"] != "a" {
		t.Error("Clone shares attribute maps")
	}
	if *tree[0].InnerContent[0] != "<div>" {
		t.Error("Clone shares inner content")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}
