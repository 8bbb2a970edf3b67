package storage

import (
	"time"

	"github.com/pders01/vidr/internal/video"
)

// Uploads is the last successful fetch of an uploader's feed together with
// the validators needed for a conditional re-fetch.
type Uploads struct {
	Uploader     string         `json:"uploader"`
	ETag         string         `json:"etag"`
	LastModified string         `json:"last_modified"`
	LastFetched  time.Time      `json:"last_fetched"`
	Videos       []*video.Video `json:"videos"`
}
