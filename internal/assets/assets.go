// Package assets makes sure media referenced by template blocks is available
// in the local media library before the blocks are inserted.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/deCybercop/wp-calypso/internal/blocks"
	"github.com/deCybercop/wp-calypso/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds simultaneous fetches
const DefaultConcurrency = 4

// mediaAttrs maps block names to their media URL attribute and the
// attribute that receives the local media ID
var mediaAttrs = map[string]struct{ url, id string }{
	"core/image":      {"url", "id"},
	"core/cover":      {"url", "id"},
	"core/media-text": {"mediaUrl", "mediaId"},
	"core/video":      {"src", "id"},
	"core/audio":      {"src", "id"},
	"core/file":       {"href", "id"},
}

// ResolutionError reports an asset that could not be fetched or stored
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve asset %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Fetcher downloads a remote asset
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (data []byte, mimeType string, err error)
}

// MediaStore keeps fetched assets
type MediaStore interface {
	SaveMedia(sourceURL, mimeType string, data []byte) (*models.Media, error)
}

// Resolver fetches and stores every remote asset a block tree references
type Resolver struct {
	Fetcher     Fetcher
	Store       MediaStore
	Concurrency int
	// Timeout bounds a whole resolution; zero means no limit
	Timeout time.Duration
	// MediaURL builds the URL blocks use for stored media
	MediaURL func(m *models.Media) string
}

// DefaultMediaURL is the path stored media is served under
func DefaultMediaURL(m *models.Media) string {
	return "/media/" + m.ID
}

// EnsureAssets returns a copy of in whose remote media references point at
// the local media library. The input is not modified.
func (r *Resolver) EnsureAssets(ctx context.Context, in []models.Block) ([]models.Block, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	out := blocks.Clone(in)
	urls := RemoteURLs(out)
	if len(urls) == 0 {
		return out, nil
	}

	resolved, err := r.fetchAll(ctx, urls)
	if err != nil {
		return nil, err
	}

	mediaURL := r.MediaURL
	if mediaURL == nil {
		mediaURL = DefaultMediaURL
	}
	blocks.Walk(out, func(b *models.Block) {
		attrs, ok := mediaAttrs[b.Name]
		if !ok {
			return
		}
		src, _ := b.Attributes[attrs.url].(string)
		m, ok := resolved[src]
		if !ok {
			return
		}
		local := mediaURL(m)
		b.Attributes[attrs.url] = local
		b.Attributes[attrs.id] = m.ID
		b.InnerHTML = strings.ReplaceAll(b.InnerHTML, src, local)
		for _, part := range b.InnerContent {
			if part != nil {
				*part = strings.ReplaceAll(*part, src, local)
			}
		}
	})
	return out, nil
}

func (r *Resolver) fetchAll(ctx context.Context, urls []string) (map[string]*models.Media, error) {
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var (
		mu       sync.Mutex
		resolved = make(map[string]*models.Media, len(urls))
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for _, u := range urls {
		u := u
		eg.Go(func() error {
			data, mimeType, err := r.Fetcher.Fetch(egCtx, u)
			if err != nil {
				return &ResolutionError{URL: u, Err: err}
			}
			m, err := r.Store.SaveMedia(u, mimeType, data)
			if err != nil {
				return &ResolutionError{URL: u, Err: err}
			}
			slog.Debug("assets: stored", "url", u, "media", m.ID, "bytes", m.Size)

			mu.Lock()
			resolved[u] = m
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// RemoteURLs returns the distinct http(s) media URLs referenced by the tree,
// in first-seen order
func RemoteURLs(tree []models.Block) []string {
	seen := make(map[string]bool)
	var urls []string
	blocks.Walk(tree, func(b *models.Block) {
		attrs, ok := mediaAttrs[b.Name]
		if !ok {
			return
		}
		src, _ := b.Attributes[attrs.url].(string)
		if !isRemote(src) || seen[src] {
			return
		}
		seen[src] = true
		urls = append(urls, src)
	})
	return urls
}

// MediaIDs returns the distinct local media IDs the tree references, in
// first-seen order
func MediaIDs(tree []models.Block) []string {
	seen := make(map[string]bool)
	var ids []string
	blocks.Walk(tree, func(b *models.Block) {
		attrs, ok := mediaAttrs[b.Name]
		if !ok {
			return
		}
		id, _ := b.Attributes[attrs.id].(string)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})
	return ids
}

func isRemote(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
