package page

import (
	"context"
	"slices"
	"sort"

	"github.com/pders01/vidr/internal/video"
)

// Subscriptions merges the latest uploads of every tracked uploader,
// newest first.
type Subscriptions struct {
	list
	uploaders []string
}

// NewSubscriptions returns a subscriptions page tracking uploaders.
func NewSubscriptions(uploaders ...string) *Subscriptions {
	s := &Subscriptions{}
	for _, u := range uploaders {
		s.AddUploader(u)
	}
	return s
}

func (s *Subscriptions) Kind() Kind     { return KindSubscriptions }
func (s *Subscriptions) Label() string  { return string(KindSubscriptions) }
func (s *Subscriptions) Status() string { return s.displaying("subscriptions") }

// Uploaders returns the tracked uploader names in the order they were added.
func (s *Subscriptions) Uploaders() []string {
	return slices.Clone(s.uploaders)
}

// Tracks reports whether uploader is subscribed to.
func (s *Subscriptions) Tracks(uploader string) bool {
	return slices.Contains(s.uploaders, uploader)
}

// AddUploader starts tracking uploader. It returns false when the name is
// empty or already tracked.
func (s *Subscriptions) AddUploader(uploader string) bool {
	if uploader == "" || s.Tracks(uploader) {
		return false
	}
	s.uploaders = append(s.uploaders, uploader)
	return true
}

// RemoveUploader stops tracking uploader and drops its videos from the page.
func (s *Subscriptions) RemoveUploader(uploader string) bool {
	i := slices.Index(s.uploaders, uploader)
	if i < 0 {
		return false
	}
	s.uploaders = slices.Delete(s.uploaders, i, i+1)
	s.setItems(slices.DeleteFunc(slices.Clone(s.items), func(v *video.Video) bool {
		return v.Uploader == uploader
	}))
	return true
}

// Refresh fetches the latest uploads of every tracked uploader and replaces
// the page contents with them, sorted by upload time, newest first.
func (s *Subscriptions) Refresh(ctx context.Context, searcher Searcher, maxResults int) {
	s.SetItems(Collect(ctx, searcher, s.uploaders, maxResults))
}

// Collect runs the uploads query for every uploader and merges the results
// newest first. It does not touch any page, so it can run off the UI loop.
func Collect(ctx context.Context, searcher Searcher, uploaders []string, maxResults int) []*video.Video {
	var items []*video.Video
	for _, u := range uploaders {
		items = append(items, searcher.Search(ctx, u, "", video.OrderPublished, maxResults)...)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Uploaded.After(items[j].Uploaded)
	})
	return items
}

// SetItems replaces the page contents, keeping them sorted newest first.
func (s *Subscriptions) SetItems(items []*video.Video) {
	items = slices.Clone(items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Uploaded.After(items[j].Uploaded)
	})
	s.setItems(items)
}

// SetRefreshed replaces the page contents with refresh results, keeping only
// videos of uploaders that are still tracked.
func (s *Subscriptions) SetRefreshed(items []*video.Video) {
	s.SetItems(slices.DeleteFunc(slices.Clone(items), func(v *video.Video) bool {
		return !s.Tracks(v.Uploader)
	}))
}
