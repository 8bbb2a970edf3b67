package query

import (
	"context"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/debuglog"
	"github.com/pders01/vidr/internal/storage"
	"github.com/pders01/vidr/internal/video"
)

// split sends uploader searches to one source and term searches to another.
type split struct {
	terms     Source
	uploaders Source
}

func (s split) Fetch(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) ([]*video.Video, error) {
	if uploader != "" {
		return s.uploaders.Fetch(ctx, uploader, term, order, maxResults)
	}
	return s.terms.Fetch(ctx, uploader, term, order, maxResults)
}

// New builds the source selected by cfg: the API client, with uploader
// searches routed to feeds when search.uploader_source is "feed".
func New(cfg *config.Config, store *storage.Store) Source {
	client := NewClient(cfg)
	if cfg != nil && cfg.Search.UploaderSource == config.SourceFeed {
		return split{terms: client, uploaders: NewFeedClient(cfg, store)}
	}
	return client
}

// Searcher adapts a Source to the page.Searcher contract.
type Searcher struct {
	Source Source
}

func (s Searcher) Search(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) []*video.Video {
	return logged(ctx, s.Source, uploader, term, order, maxResults)
}

// DocCount reports the size of the offline index, or -1 without one.
func (s Searcher) DocCount() int {
	if c, ok := s.Source.(*Catalog); ok {
		if n, err := c.DocCount(); err == nil {
			return n
		}
	}
	return -1
}

// NewSearcher wires the configured source behind an offline catalog at
// indexPath. Without a usable index the bare source is used.
func NewSearcher(cfg *config.Config, store *storage.Store, indexPath string) (Searcher, func() error) {
	src := New(cfg, store)
	fallback := cfg == nil || cfg.Search.OfflineFallback

	cat, err := OpenCatalog(src, indexPath, fallback)
	if err != nil {
		debuglog.Warnf("search index unavailable, continuing without it: %v", err)
		return Searcher{Source: src}, func() error { return nil }
	}
	return Searcher{Source: cat}, cat.Close
}
