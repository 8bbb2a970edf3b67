package page

import (
	"fmt"

	"github.com/pders01/vidr/internal/paging"
	"github.com/pders01/vidr/internal/video"
)

// Snapshot is the serializable form of a page.
type Snapshot struct {
	Kind      Kind           `json:"kind"`
	Items     []*video.Video `json:"items,omitempty"`
	Start     int            `json:"start,omitempty"`
	Uploaders []string       `json:"uploaders,omitempty"`
	Query     *Query         `json:"query,omitempty"`
}

// Snap captures p for persistence.
func Snap(p Page) Snapshot {
	s := Snapshot{
		Kind:  p.Kind(),
		Items: p.Items(),
		Start: p.Window().Start,
	}
	switch p := p.(type) {
	case *Subscriptions:
		s.Uploaders = p.Uploaders()
	case *Search:
		s.Query = p.Query
	}
	return s
}

// Restore rebuilds the page captured in s. The scroll window is re-fitted
// on the next Layout.
func Restore(s Snapshot) (Page, error) {
	var p Page
	switch s.Kind {
	case KindSubscriptions:
		sub := NewSubscriptions(s.Uploaders...)
		sub.items = s.Items
		p = sub
	case KindBookmarks:
		p = NewBookmarks(s.Items...)
	case KindSearch:
		search := NewSearch()
		search.Query = s.Query
		search.items = s.Items
		p = search
	default:
		return nil, fmt.Errorf("unknown page kind %q", s.Kind)
	}
	b := p.base()
	b.window = paging.Window{Start: max(s.Start, 0), End: max(s.Start, 0)}
	return p, nil
}
