// Package video holds the result record returned by catalog queries and the
// per-item text shown in the result panes.
package video

import (
	"strconv"
	"time"

	"github.com/pders01/vidr/internal/textfit"
)

// WatchURLPrefix is prepended to a video ID to build its watch URL.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// Video is a single catalog result.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Uploader    string    `json:"uploader"`
	Uploaded    time.Time `json:"uploaded"`
	Views       int64     `json:"views"`
	Rating      float64   `json:"rating"`
	Likes       int64     `json:"likes"`
	Dislikes    int64     `json:"dislikes"`
	Comments    int64     `json:"comments"`
	Duration    int       `json:"duration"`
}

// URL is the watch page handed to the player.
func (v *Video) URL() string {
	return WatchURLPrefix + v.ID
}

// Ordering is the sort order requested from the catalog.
type Ordering string

const (
	OrderRelevance Ordering = "relevance"
	OrderPublished Ordering = "published"
	OrderViewCount Ordering = "viewCount"
	OrderRating    Ordering = "rating"
)

// ParseOrdering maps s to a known ordering, defaulting to relevance.
func ParseOrdering(s string) Ordering {
	switch Ordering(s) {
	case OrderPublished, OrderViewCount, OrderRating:
		return Ordering(s)
	default:
		return OrderRelevance
	}
}

// InfoWidth is the column count of the info pane next to detailed items.
const InfoWidth = 23

// TitleLine numbers the title for the main pane.
func (v *Video) TitleLine(number int) string {
	return strconv.Itoa(number) + ". " + v.Title
}

// InfoLines returns the three info pane rows of the detailed layout:
// uploader, views and length, rating and upload date.
func (v *Video) InfoLines() (string, string, string) {
	user := " " + textfit.QuickFit(v.Uploader, InfoWidth-2)
	stats := " v:" + textfit.FormatInt(v.Views, 4) +
		" t:" + textfit.QuickFit(textfit.FormatDuration(v.Duration), 8)
	rated := " r:" + textfit.QuickFit(v.rating(), 4) +
		" u:" + textfit.FormatDate(v.Uploaded)
	return user, stats, rated
}

// VoteLine is the likes/dislikes row shown in the detail view.
func (v *Video) VoteLine() string {
	return " l:" + textfit.FormatInt(v.Likes, 4) +
		" d:" + textfit.FormatInt(v.Dislikes, 4) +
		" r:" + textfit.QuickFit(v.rating(), 4)
}

// SummaryLine lays the stats of the simple layout out across width columns.
func (v *Video) SummaryLine(width int) (string, error) {
	return textfit.Center([]string{
		"views:" + textfit.FormatInt(v.Views, 4),
		"duration:" + textfit.QuickFit(textfit.FormatDuration(v.Duration), 8),
		"rating:" + textfit.QuickFit(v.rating(), 4),
		"likes:" + textfit.FormatInt(v.Likes, 4),
		"dislikes:" + textfit.FormatInt(v.Dislikes, 4),
		"date:" + textfit.FormatDate(v.Uploaded),
	}, width)
}

func (v *Video) rating() string {
	return strconv.FormatFloat(v.Rating, 'f', -1, 64)
}
