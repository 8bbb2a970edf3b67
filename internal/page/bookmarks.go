package page

import (
	"slices"

	"github.com/pders01/vidr/internal/paging"
	"github.com/pders01/vidr/internal/video"
)

// Bookmarks keeps videos in the order they were bookmarked.
type Bookmarks struct {
	list
}

// NewBookmarks returns a bookmarks page holding items.
func NewBookmarks(items ...*video.Video) *Bookmarks {
	b := &Bookmarks{}
	b.items = slices.Clone(items)
	return b
}

func (b *Bookmarks) Kind() Kind     { return KindBookmarks }
func (b *Bookmarks) Label() string  { return string(KindBookmarks) }
func (b *Bookmarks) Status() string { return b.displaying("bookmarks") }

// Add appends v unless a video with the same ID is already bookmarked.
func (b *Bookmarks) Add(v *video.Video) bool {
	if v == nil || b.Contains(v.ID) {
		return false
	}
	b.items = append(b.items, v)
	return true
}

// Contains reports whether a video with id is bookmarked.
func (b *Bookmarks) Contains(id string) bool {
	return slices.ContainsFunc(b.items, func(v *video.Video) bool { return v.ID == id })
}

// Delete removes the bookmark at index i.
func (b *Bookmarks) Delete(i int) bool {
	if i < 0 || i >= len(b.items) {
		return false
	}
	b.items = slices.Delete(b.items, i, i+1)
	b.window = paging.Compute(b.window.Start, len(b.items), b.perPage)
	return true
}

// Move swaps the bookmark at index i with its neighbour shift places away
// (-1 moves it up, 1 down). Moving past either end is a no-op.
func (b *Bookmarks) Move(i, shift int) bool {
	j := i + shift
	if i < 0 || i >= len(b.items) || j < 0 || j >= len(b.items) || shift == 0 {
		return false
	}
	b.items[i], b.items[j] = b.items[j], b.items[i]
	return true
}
