// Package session owns the page stack of a browsing session: which pages
// are open, which one is current, and how the page bar lays their labels
// out.
package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/pders01/vidr/internal/page"
	"github.com/pders01/vidr/internal/video"
)

// ErrOutOfRange is returned when a selected row does not map to an item.
var ErrOutOfRange = errors.New("out of range")

// Fixed page positions.
const (
	SubscriptionsIndex = 0
	BookmarksIndex     = 1
)

// Session is an ordered stack of pages and the index of the current one.
// Index 0 is always the subscriptions page and index 1 the bookmarks page;
// every later page is a search page.
type Session struct {
	pages   []page.Page
	current int
}

// New returns a fresh session: the two fixed pages plus one empty search
// page, which is current.
func New(uploaders ...string) *Session {
	return &Session{
		pages: []page.Page{
			page.NewSubscriptions(uploaders...),
			page.NewBookmarks(),
			page.NewSearch(),
		},
		current: 2,
	}
}

// Current returns the page being shown.
func (s *Session) Current() page.Page { return s.pages[s.current] }

// Index returns the position of the current page.
func (s *Session) Index() int { return s.current }

// Len returns the number of open pages.
func (s *Session) Len() int { return len(s.pages) }

// Pages returns the open pages in bar order.
func (s *Session) Pages() []page.Page { return slices.Clone(s.pages) }

// Subscriptions returns the fixed subscriptions page.
func (s *Session) Subscriptions() *page.Subscriptions {
	return s.pages[SubscriptionsIndex].(*page.Subscriptions)
}

// Bookmarks returns the fixed bookmarks page.
func (s *Session) Bookmarks() *page.Bookmarks {
	return s.pages[BookmarksIndex].(*page.Bookmarks)
}

// OpenNewPage inserts an empty search page right after the current page
// (never before the fixed pages) and moves to it.
func (s *Session) OpenNewPage() *page.Search {
	at := max(s.current, BookmarksIndex) + 1
	p := page.NewSearch()
	s.pages = slices.Insert(s.pages, at, page.Page(p))
	s.current = at
	return p
}

// CloseCurrentPage closes the current search page. The fixed pages cannot
// be closed; closing them is a no-op that returns false.
func (s *Session) CloseCurrentPage() bool {
	if s.current <= BookmarksIndex {
		return false
	}
	s.pages = slices.Delete(s.pages, s.current, s.current+1)
	if s.current >= len(s.pages) {
		s.current--
	}
	return true
}

// MoveLeft moves to the previous page, stopping at the first.
func (s *Session) MoveLeft() { s.MoveTo(s.current - 1) }

// MoveRight moves to the next page, stopping at the last.
func (s *Session) MoveRight() { s.MoveTo(s.current + 1) }

// MoveTo moves to page i, clamped to the open pages.
func (s *Session) MoveTo(i int) {
	s.current = clamp(i, 0, len(s.pages)-1)
}

// IndexOf returns the position of p in the stack, or -1 once it is closed.
func (s *Session) IndexOf(p page.Page) int {
	return slices.Index(s.pages, p)
}

// SelectItem maps a row number as shown on screen to an item of the current
// page. With realIndex the number is the 1-based position in the page;
// otherwise it is relative to the top of the scroll window.
func (s *Session) SelectItem(row int, realIndex bool) (*video.Video, int, error) {
	p := s.Current()
	i := p.Window().Start + row
	if realIndex {
		i = row - 1
	}
	items := p.Items()
	if i < 0 || i >= len(items) {
		return nil, i, fmt.Errorf("item %d of %d: %w", row, len(items), ErrOutOfRange)
	}
	return items[i], i, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
