// Package editor applies edits to a persisted post: metadata merges, title
// changes, and block insertion. Every edit is saved before it returns.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/deCybercop/wp-calypso/internal/blocks"
	"github.com/deCybercop/wp-calypso/internal/models"
)

// PostContentName is the container block templates are inserted into
const PostContentName = "a8c/post-content"

// ErrContainerNotFound is returned when InsertBlocks names a missing container
var ErrContainerNotFound = errors.New("container block not found")

// PostStore loads and saves posts
type PostStore interface {
	GetPost(id int64) (*models.Post, error)
	UpdatePost(post *models.Post) error
}

// Editor edits one post. It is safe for concurrent use.
type Editor struct {
	store PostStore

	mu   sync.Mutex
	post *models.Post
}

// Open loads post id from store
func Open(store PostStore, id int64) (*Editor, error) {
	post, err := store.GetPost(id)
	if err != nil {
		return nil, err
	}
	return New(store, post), nil
}

// New wraps an already loaded post
func New(store PostStore, post *models.Post) *Editor {
	if post.Meta == nil {
		post.Meta = map[string]any{}
	}
	return &Editor{store: store, post: post}
}

// Post returns a copy of the current post
func (e *Editor) Post() models.Post {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := *e.post
	p.Meta = make(map[string]any, len(e.post.Meta))
	for k, v := range e.post.Meta {
		p.Meta[k] = v
	}
	p.Blocks = blocks.Clone(e.post.Blocks)
	return p
}

// EditMetadata merges patch into the post metadata. Keys not in patch keep
// their values.
func (e *Editor) EditMetadata(patch map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, v := range patch {
		e.post.Meta[k] = v
	}
	return e.save()
}

// EditTitle sets the post title
func (e *Editor) EditTitle(title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.post.Title = title
	return e.save()
}

// PostContentBlock returns the client ID of the post content container, or
// "" when the post has none.
func (e *Editor) PostContentBlock() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b := blocks.Find(e.post.Blocks, PostContentName); b != nil {
		return b.ClientID
	}
	return ""
}

// InsertBlocks inserts bs at index among the children of the block with
// containerID, or among the root blocks when containerID is empty. Index is
// clamped to the valid range.
func (e *Editor) InsertBlocks(bs []models.Block, index int, containerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(bs) == 0 {
		return nil
	}
	if containerID == "" {
		e.post.Blocks = insertAt(e.post.Blocks, bs, index)
		return e.save()
	}

	container := blocks.FindByClientID(e.post.Blocks, containerID)
	if container == nil {
		return fmt.Errorf("insert into %s: %w", containerID, ErrContainerNotFound)
	}
	index = clamp(index, len(container.InnerBlocks))
	container.InnerContent = insertMarkers(container.InnerContent, index, len(bs))
	container.InnerBlocks = insertAt(container.InnerBlocks, bs, index)
	return e.save()
}

// Save persists the current post
func (e *Editor) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save()
}

func (e *Editor) save() error {
	if err := e.store.UpdatePost(e.post); err != nil {
		return fmt.Errorf("save post %d: %w", e.post.ID, err)
	}
	return nil
}

func clamp(index, n int) int {
	if index < 0 {
		return 0
	}
	if index > n {
		return n
	}
	return index
}

func insertAt(dst, src []models.Block, index int) []models.Block {
	index = clamp(index, len(dst))
	out := make([]models.Block, 0, len(dst)+len(src))
	out = append(out, dst[:index]...)
	out = append(out, blocks.Clone(src)...)
	return append(out, dst[index:]...)
}

// insertMarkers adds n inner-block markers to content so that they precede
// the index-th existing marker. A container with no markers is split before
// its closing tag.
func insertMarkers(content []*string, index, n int) []*string {
	if len(content) == 0 {
		return nil
	}
	markers := make([]*string, n)

	seen := 0
	for i, part := range content {
		if part != nil {
			continue
		}
		if seen == index {
			return splice(content, i, markers)
		}
		seen++
	}
	if seen > 0 {
		last := 0
		for i, part := range content {
			if part == nil {
				last = i
			}
		}
		return splice(content, last+1, markers)
	}

	// No children yet: split the last markup chunk at its closing tag.
	tail := *content[len(content)-1]
	cut := strings.LastIndex(tail, "</")
	if cut < 0 {
		return append(append([]*string{}, content...), markers...)
	}
	open, closing := tail[:cut], tail[cut:]
	out := append([]*string{}, content[:len(content)-1]...)
	out = append(out, &open)
	out = append(out, markers...)
	return append(out, &closing)
}

func splice(content []*string, at int, markers []*string) []*string {
	out := make([]*string, 0, len(content)+len(markers))
	out = append(out, content[:at]...)
	out = append(out, markers...)
	return append(out, content[at:]...)
}
