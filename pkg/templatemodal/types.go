package templatemodal

import (
	"context"

	"github.com/deCybercop/wp-calypso/internal/models"
)

// ModalState is the observable state of a modal instance
type ModalState struct {
	IsOpen           bool
	IsLoading        bool
	SelectedTemplate string // slug of the last template with content
	Error            error
}

// Editor is the document the modal writes the chosen template into
type Editor interface {
	EditMetadata(patch map[string]any) error
	EditTitle(title string) error
	InsertBlocks(blocks []models.Block, index int, containerID string) error
	PostContentBlock() string
}

// AssetResolver makes the media a block tree references available locally
type AssetResolver interface {
	EnsureAssets(ctx context.Context, blocks []models.Block) ([]models.Block, error)
}

// AssetsResolvedMsg carries the outcome of resolving a template's assets.
// ModalID and Seq identify the selection it belongs to.
type AssetsResolvedMsg struct {
	ModalID string
	Seq     int
	Title   string
	Blocks  []models.Block
	Error   error
}

// CloseTickMsg is sent once the close delay after an insertion has elapsed
type CloseTickMsg struct {
	ModalID string
	Seq     int
}

// PreviewRenderedMsg carries rendered preview markdown for a template
type PreviewRenderedMsg struct {
	ModalID string
	Slug    string
	Width   int
	Content string
	Error   error
}
