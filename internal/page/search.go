package page

import (
	"context"
	"fmt"

	"github.com/pders01/vidr/internal/video"
)

// Query is what a search page asked the catalog for.
type Query struct {
	Uploader   string         `json:"uploader"`
	Term       string         `json:"term"`
	Ordering   video.Ordering `json:"ordering"`
	MaxResults int            `json:"max_results"`
}

// Search holds the results of one catalog query. Query is nil until the
// first search runs on the page.
type Search struct {
	list
	Query *Query
}

// NewSearch returns an empty search page.
func NewSearch() *Search {
	return &Search{}
}

func (s *Search) Kind() Kind { return KindSearch }

func (s *Search) Label() string {
	switch {
	case s.Query == nil:
		return "new search"
	case s.Query.Uploader == "":
		return "s:" + s.Query.Term
	default:
		return "u:" + s.Query.Uploader + "/" + s.Query.Term
	}
}

func (s *Search) Status() string {
	switch {
	case s.Query == nil:
		return "new page"
	case len(s.items) == 0:
		return "no results found"
	case s.Query.Uploader == "":
		return s.displaying(fmt.Sprintf("a search for %q ordered by %s", s.Query.Term, s.Query.Ordering))
	default:
		return s.displaying(fmt.Sprintf("uploads by %s ordered by %s", s.Query.Uploader, s.Query.Ordering))
	}
}

// Run executes q and replaces the page contents with its results.
func (s *Search) Run(ctx context.Context, searcher Searcher, q Query) {
	s.SetResults(q, searcher.Search(ctx, q.Uploader, q.Term, q.Ordering, q.MaxResults))
}

// SetResults records q and its results, scrolling back to the top.
func (s *Search) SetResults(q Query, items []*video.Video) {
	s.Query = &q
	s.setItems(items)
}
