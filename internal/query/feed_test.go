package query

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/storage"
	"github.com/pders01/vidr/internal/video"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
	<title>catlover</title>
	<entry>
		<id>yt:video:old1</id>
		<yt:videoId>old1</yt:videoId>
		<title>Old cat video</title>
		<link rel="alternate" href="https://www.youtube.com/watch?v=old1"/>
		<author><name>catlover</name></author>
		<published>2012-01-01T10:00:00+00:00</published>
		<media:group>
			<media:title>Old cat video</media:title>
			<media:description>From the archive</media:description>
			<media:community>
				<media:starRating count="10" average="3.50" min="1" max="5"/>
				<media:statistics views="5000"/>
			</media:community>
		</media:group>
	</entry>
	<entry>
		<id>yt:video:new1</id>
		<yt:videoId>new1</yt:videoId>
		<title>New dog video</title>
		<link rel="alternate" href="https://www.youtube.com/watch?v=new1"/>
		<author><name>catlover</name></author>
		<published>2012-06-01T10:00:00+00:00</published>
		<media:group>
			<media:description>Not a cat at all</media:description>
			<media:community>
				<media:starRating count="3" average="4.90" min="1" max="5"/>
				<media:statistics views="12"/>
			</media:community>
		</media:group>
	</entry>
</feed>`

func newFeedServer(t *testing.T, handler http.HandlerFunc) *config.Config {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.TestConfig()
	cfg.Search.FeedURL = server.URL + "/feeds/videos.xml"
	return cfg
}

func TestFeedClientFetch(t *testing.T) {
	var user string
	cfg := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		user = r.URL.Query().Get("user")
		w.Write([]byte(sampleFeed))
	})
	f := NewFeedClient(cfg, nil)

	videos, err := f.Fetch(context.Background(), "catlover", "", video.OrderPublished, 10)
	require.NoError(t, err)
	assert.Equal(t, "catlover", user)
	require.Len(t, videos, 2)

	assert.Equal(t, "new1", videos[0].ID, "newest first")
	old := videos[1]
	assert.Equal(t, "old1", old.ID)
	assert.Equal(t, "Old cat video", old.Title)
	assert.Equal(t, "From the archive", old.Description)
	assert.Equal(t, "catlover", old.Uploader)
	assert.Equal(t, int64(5000), old.Views)
	assert.Equal(t, 3.5, old.Rating)
	assert.Equal(t, time.Date(2012, time.January, 1, 10, 0, 0, 0, time.UTC), old.Uploaded.UTC())
}

func TestFeedClientFilterAndOrder(t *testing.T) {
	cfg := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	})
	f := NewFeedClient(cfg, nil)

	tests := []struct {
		name  string
		term  string
		order video.Ordering
		max   int
		want  []string
	}{
		{name: "relevance keeps feed order", order: video.OrderRelevance, want: []string{"old1", "new1"}},
		{name: "views", order: video.OrderViewCount, want: []string{"old1", "new1"}},
		{name: "rating", order: video.OrderRating, want: []string{"new1", "old1"}},
		{name: "term in title or description", term: "CAT", order: video.OrderPublished, want: []string{"new1", "old1"}},
		{name: "term in title only", term: "dog", order: video.OrderRelevance, want: []string{"new1"}},
		{name: "no match", term: "horse", order: video.OrderRelevance, want: []string{}},
		{name: "max results", order: video.OrderRelevance, max: 1, want: []string{"old1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videos, err := f.Fetch(context.Background(), "catlover", tt.term, tt.order, tt.max)
			require.NoError(t, err)
			got := []string{}
			for _, v := range videos {
				got = append(got, v.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeedClientNeedsUploader(t *testing.T) {
	f := NewFeedClient(config.TestConfig(), nil)
	_, err := f.Fetch(context.Background(), "", "cats", video.OrderRelevance, 5)
	assert.Error(t, err)
	assert.Empty(t, f.Search(context.Background(), "", "cats", video.OrderRelevance, 5))
}

func TestFeedClientConditionalFetch(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	requests := 0
	cfg := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Wed, 01 Jan 2025 00:00:00 GMT")
		w.Write([]byte(sampleFeed))
	})
	f := NewFeedClient(cfg, store)

	first, err := f.Fetch(context.Background(), "catlover", "", video.OrderRelevance, 10)
	require.NoError(t, err)
	require.Len(t, first, 2)

	cached, err := store.GetUploads("catlover")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, `"v1"`, cached.ETag)
	assert.Equal(t, "Wed, 01 Jan 2025 00:00:00 GMT", cached.LastModified)
	assert.WithinDuration(t, time.Now(), cached.LastFetched, time.Minute)

	second, err := f.Fetch(context.Background(), "catlover", "", video.OrderRelevance, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestFeedClientRateLimited(t *testing.T) {
	cfg := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	f := NewFeedClient(cfg, nil)

	_, err := f.Fetch(context.Background(), "catlover", "", video.OrderRelevance, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1m0s")
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{header: "120", want: 120 * time.Second},
		{header: "invalid", want: defaultRetryAfter},
		{header: "", want: defaultRetryAfter},
	}
	for _, tt := range tests {
		resp := &http.Response{Header: http.Header{}}
		if tt.header != "" {
			resp.Header.Set("Retry-After", tt.header)
		}
		assert.Equal(t, tt.want, retryAfter(resp), tt.header)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"cats", "go", "piano"}, tokenize("Cats, a GO piano!"))
	assert.Empty(t, tokenize(" a b "))
}
