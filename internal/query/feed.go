package query

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/debuglog"
	"github.com/pders01/vidr/internal/storage"
	"github.com/pders01/vidr/internal/video"
)

const defaultRetryAfter = 15 * time.Minute

// FeedClient answers uploader searches from the uploader's Atom feed. When a
// store is attached, feeds are cached there and re-fetched conditionally.
type FeedClient struct {
	client    *http.Client
	parser    *gofeed.Parser
	feedURL   string
	userAgent string
	store     *storage.Store
}

func NewFeedClient(cfg *config.Config, store *storage.Store) *FeedClient {
	timeout := defaultTimeout
	userAgent := defaultUserAgent
	feedURL := ""
	if cfg != nil {
		feedURL = cfg.Search.FeedURL
		if cfg.Search.HTTPTimeout > 0 {
			timeout = cfg.Search.HTTPTimeout
		}
		if cfg.Search.UserAgent != "" {
			userAgent = cfg.Search.UserAgent
		}
	}

	return &FeedClient{
		client:    &http.Client{Timeout: timeout},
		parser:    gofeed.NewParser(),
		feedURL:   feedURL,
		userAgent: userAgent,
		store:     store,
	}
}

// Search implements page.Searcher.
func (f *FeedClient) Search(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) []*video.Video {
	return logged(ctx, f, uploader, term, order, maxResults)
}

// Fetch returns the uploads of uploader whose title or description contains
// term, sorted by order and cut to maxResults.
func (f *FeedClient) Fetch(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) ([]*video.Video, error) {
	if uploader == "" {
		return nil, fmt.Errorf("feed search needs an uploader")
	}

	videos, err := f.uploads(ctx, uploader)
	if err != nil {
		return nil, err
	}

	videos = filterTerm(videos, term)
	sortVideos(videos, order)
	if maxResults > 0 && len(videos) > maxResults {
		videos = videos[:maxResults]
	}
	return videos, nil
}

func (f *FeedClient) uploads(ctx context.Context, uploader string) ([]*video.Video, error) {
	var cached *storage.Uploads
	if f.store != nil {
		c, err := f.store.GetUploads(uploader)
		if err != nil {
			debuglog.Warnf("ignoring cached feed of %s: %v", uploader, err)
		}
		cached = c
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL+"?user="+url.QueryEscape(uploader), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/atom+xml, application/xml, text/xml")
	if cached != nil {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && cached != nil:
		debuglog.Debugf("feed of %s not modified", uploader)
		return slices.Clone(cached.Videos), nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited, retry after %s", retryAfter(resp))
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	videos, err := f.parse(resp.Body, uploader)
	if err != nil {
		return nil, err
	}

	if f.store != nil {
		u := &storage.Uploads{Uploader: uploader, Videos: videos}
		updateValidators(u, resp)
		if err := f.store.SaveUploads(u); err != nil {
			debuglog.Warnf("caching feed of %s: %v", uploader, err)
		}
	}
	return slices.Clone(videos), nil
}

func (f *FeedClient) parse(r io.Reader, uploader string) ([]*video.Video, error) {
	feed, err := f.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	videos := make([]*video.Video, 0, len(feed.Items))
	for _, item := range feed.Items {
		v := &video.Video{
			ID:          videoID(item),
			Title:       item.Title,
			Description: item.Description,
			Uploader:    uploader,
		}
		if len(item.Authors) > 0 && item.Authors[0].Name != "" {
			v.Uploader = item.Authors[0].Name
		}
		if item.PublishedParsed != nil {
			v.Uploaded = *item.PublishedParsed
		}
		applyMediaGroup(v, item.Extensions)
		videos = append(videos, v)
	}
	return videos, nil
}

// videoID prefers yt:videoId and falls back to the v parameter of the link.
func videoID(item *gofeed.Item) string {
	if id := extValue(item.Extensions, "yt", "videoId"); id != "" {
		return id
	}
	if u, err := url.Parse(item.Link); err == nil {
		if id := u.Query().Get("v"); id != "" {
			return id
		}
	}
	return strings.TrimPrefix(item.GUID, "yt:video:")
}

// applyMediaGroup copies description, views and rating out of media:group.
func applyMediaGroup(v *video.Video, exts ext.Extensions) {
	groups := exts["media"]["group"]
	if len(groups) == 0 {
		return
	}
	g := groups[0]

	if d := child(g, "description"); d != nil && d.Value != "" {
		v.Description = strings.TrimSpace(d.Value)
	}

	community := child(g, "community")
	if community == nil {
		return
	}
	if stats := child(*community, "statistics"); stats != nil {
		v.Views, _ = strconv.ParseInt(stats.Attrs["views"], 10, 64)
	}
	if star := child(*community, "starRating"); star != nil {
		v.Rating, _ = strconv.ParseFloat(star.Attrs["average"], 64)
		count, _ := strconv.ParseInt(star.Attrs["count"], 10, 64)
		v.Likes = count
	}
}

func child(e ext.Extension, name string) *ext.Extension {
	if c := e.Children[name]; len(c) > 0 {
		return &c[0]
	}
	return nil
}

func extValue(exts ext.Extensions, ns, name string) string {
	if e := exts[ns][name]; len(e) > 0 {
		return e[0].Value
	}
	return ""
}

func updateValidators(u *storage.Uploads, resp *http.Response) {
	if etag := resp.Header.Get("ETag"); etag != "" {
		u.ETag = etag
	}
	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		u.LastModified = lastMod
	}
	u.LastFetched = time.Now()
}

func retryAfter(resp *http.Response) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if seconds, err := time.ParseDuration(s + "s"); err == nil {
			return seconds
		}
	}
	return defaultRetryAfter
}

func filterTerm(videos []*video.Video, term string) []*video.Video {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return videos
	}
	return slices.DeleteFunc(videos, func(v *video.Video) bool {
		return !strings.Contains(strings.ToLower(v.Title), term) &&
			!strings.Contains(strings.ToLower(v.Description), term)
	})
}

// sortVideos orders videos locally; relevance keeps the feed order.
func sortVideos(videos []*video.Video, order video.Ordering) {
	var less func(a, b *video.Video) int
	switch order {
	case video.OrderPublished:
		less = func(a, b *video.Video) int { return b.Uploaded.Compare(a.Uploaded) }
	case video.OrderViewCount:
		less = func(a, b *video.Video) int { return cmp.Compare(b.Views, a.Views) }
	case video.OrderRating:
		less = func(a, b *video.Video) int { return cmp.Compare(b.Rating, a.Rating) }
	default:
		return
	}
	slices.SortStableFunc(videos, less)
}
