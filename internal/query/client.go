// Package query answers catalog searches: term and uploader searches over
// the JSON-C API, uploader feeds parsed with gofeed, and an offline bleve
// catalog that remembers what was seen.
package query

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/debuglog"
	"github.com/pders01/vidr/internal/video"
)

const (
	defaultUserAgent = "vidr/1.0 (https://github.com/pders01/vidr)"
	defaultTimeout   = 30 * time.Second
)

// Source is a catalog backend that reports failures. Client and FeedClient
// implement it; Catalog wraps one.
type Source interface {
	Fetch(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) ([]*video.Video, error)
}

// Client queries the JSON-C search API.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewClient(cfg *config.Config) *Client {
	timeout := defaultTimeout
	userAgent := defaultUserAgent
	baseURL := ""
	if cfg != nil {
		baseURL = cfg.Search.APIURL
		if cfg.Search.HTTPTimeout > 0 {
			timeout = cfg.Search.HTTPTimeout
		}
		if cfg.Search.UserAgent != "" {
			userAgent = cfg.Search.UserAgent
		}
	}

	return &Client{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// Search implements page.Searcher. Failures are logged and yield no videos.
func (c *Client) Search(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) []*video.Video {
	return logged(ctx, c, uploader, term, order, maxResults)
}

// Fetch runs one query. Without an uploader it searches the whole catalog,
// otherwise only that uploader's uploads.
func (c *Client) Fetch(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) ([]*video.Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(uploader, term, order, maxResults), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	videos, err := decodeItems(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	return videos, nil
}

func (c *Client) endpoint(uploader, term string, order video.Ordering, maxResults int) string {
	path := "/videos"
	if uploader != "" {
		path = "/users/" + url.PathEscape(uploader) + "/uploads"
	}

	q := url.Values{}
	q.Set("q", term)
	q.Set("v", "2")
	q.Set("alt", "jsonc")
	q.Set("start-index", "1")
	q.Set("safeSearch", "none")
	q.Set("max-results", strconv.Itoa(maxResults))
	q.Set("paid-content", "false")
	q.Set("orderby", string(order))

	return c.baseURL + path + "?" + q.Encode()
}

func logged(ctx context.Context, src Source, uploader, term string, order video.Ordering, maxResults int) []*video.Video {
	videos, err := src.Fetch(ctx, uploader, term, order, maxResults)
	if err != nil {
		debuglog.WithFields(map[string]interface{}{
			"uploader": uploader,
			"term":     term,
			"order":    order,
		}).Warnf("search failed: %v", err)
		return []*video.Video{}
	}
	return videos
}
