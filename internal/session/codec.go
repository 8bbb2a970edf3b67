package session

import (
	"encoding/json"
	"fmt"

	"github.com/pders01/vidr/internal/page"
)

type snapshot struct {
	Current int             `json:"current"`
	Pages   []page.Snapshot `json:"pages"`
}

// Marshal serializes the page stack and current index.
func Marshal(s *Session) ([]byte, error) {
	snap := snapshot{Current: s.current, Pages: make([]page.Snapshot, len(s.pages))}
	for i, p := range s.pages {
		snap.Pages[i] = page.Snap(p)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

// Unmarshal rebuilds a session saved by Marshal. Missing fixed pages are
// recreated empty and the current index is clamped to the restored stack.
func Unmarshal(data []byte) (*Session, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	var (
		subs      *page.Subscriptions
		bookmarks *page.Bookmarks
		searches  []page.Page
	)
	for _, ps := range snap.Pages {
		p, err := page.Restore(ps)
		if err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		switch p := p.(type) {
		case *page.Subscriptions:
			if subs == nil {
				subs = p
			}
		case *page.Bookmarks:
			if bookmarks == nil {
				bookmarks = p
			}
		case *page.Search:
			searches = append(searches, p)
		}
	}
	if subs == nil {
		subs = page.NewSubscriptions()
	}
	if bookmarks == nil {
		bookmarks = page.NewBookmarks()
	}

	s := &Session{pages: append([]page.Page{subs, bookmarks}, searches...)}
	s.MoveTo(snap.Current)
	return s, nil
}
