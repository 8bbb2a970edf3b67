package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pders01/vidr/internal/video"
)

// uploadedLayouts are tried in order when parsing the uploaded field.
var uploadedLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	time.RFC3339,
}

type payload struct {
	Data struct {
		Items []item `json:"items"`
	} `json:"data"`
}

type item struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Uploader     string  `json:"uploader"`
	Uploaded     string  `json:"uploaded"`
	ViewCount    number  `json:"viewCount"`
	Rating       number  `json:"rating"`
	LikeCount    number  `json:"likeCount"`
	RatingCount  *number `json:"ratingCount"`
	CommentCount number  `json:"commentCount"`
	Duration     number  `json:"duration"`
}

// number accepts both JSON numbers and numeric strings; the API sends
// counters either way.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", b, err)
	}
	*n = number(f)
	return nil
}

// decodeItems reads a JSON-C payload. A payload without data.items is an
// empty result, not an error.
func decodeItems(r io.Reader) ([]*video.Video, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, err
	}

	videos := make([]*video.Video, 0, len(p.Data.Items))
	for _, it := range p.Data.Items {
		v := &video.Video{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Uploader:    it.Uploader,
			Uploaded:    parseUploaded(it.Uploaded),
			Views:       int64(it.ViewCount),
			Rating:      float64(it.Rating),
			Likes:       int64(it.LikeCount),
			Comments:    int64(it.CommentCount),
			Duration:    int(it.Duration),
		}
		if it.RatingCount != nil {
			v.Dislikes = int64(*it.RatingCount) - v.Likes
		}
		videos = append(videos, v)
	}
	return videos, nil
}

func parseUploaded(s string) time.Time {
	for _, layout := range uploadedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
