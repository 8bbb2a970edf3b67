// Package page models the pages of the browser. A page is one of three
// variants (Subscriptions, Bookmarks or Search), each owning an ordered list
// of videos and its own scroll window.
package page

import (
	"context"
	"fmt"

	"github.com/pders01/vidr/internal/paging"
	"github.com/pders01/vidr/internal/video"
)

// Kind names a page variant.
type Kind string

const (
	KindSubscriptions Kind = "subscriptions"
	KindBookmarks     Kind = "bookmarks"
	KindSearch        Kind = "search"
)

// Searcher runs catalog queries. An empty result covers both "no match"
// and "request failed".
type Searcher interface {
	Search(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) []*video.Video
}

// Page is implemented by *Subscriptions, *Bookmarks and *Search only.
type Page interface {
	Kind() Kind
	// Label is the short name shown in the page bar.
	Label() string
	// Status describes the page for the status bar.
	Status() string
	Items() []*video.Video
	Window() paging.Window
	// Visible returns the items inside the scroll window.
	Visible() []*video.Video
	// Layout fits the scroll window to a pane of height rows.
	Layout(height, itemHeight int) paging.Window
	ScrollDown()
	ScrollUp()

	base() *list
}

// list is the state every variant shares.
type list struct {
	items   []*video.Video
	window  paging.Window
	perPage int
}

func (l *list) base() *list { return l }

func (l *list) Items() []*video.Video { return l.items }

func (l *list) Window() paging.Window { return l.window }

func (l *list) Visible() []*video.Video {
	w := paging.Compute(l.window.Start, len(l.items), l.window.Len())
	return l.items[w.Start:w.End]
}

func (l *list) Layout(height, itemHeight int) paging.Window {
	l.perPage = paging.PerPage(height, itemHeight)
	l.window = paging.Compute(l.window.Start, len(l.items), l.perPage)
	return l.window
}

func (l *list) ScrollDown() {
	l.window = paging.Compute(l.window.ScrollDown(len(l.items)), len(l.items), l.perPage)
}

func (l *list) ScrollUp() {
	l.window = paging.Compute(l.window.ScrollUp(), len(l.items), l.perPage)
}

func (l *list) setItems(items []*video.Video) {
	l.items = items
	l.window = paging.Compute(0, len(items), l.perPage)
}

func (l *list) displaying(what string) string {
	if len(l.items) == 0 {
		return "no results"
	}
	return fmt.Sprintf("Displaying videos %d-%d of %s", l.window.Start+1, l.window.End, what)
}
