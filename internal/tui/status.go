package tui

import (
	"fmt"
	"strings"
)

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgSearching       = "searching…"
	MsgRefreshing      = "refreshing subscriptions…"
	MsgEmptySearch     = "nothing to search for"
	MsgSelectFirst     = "type an item number first"
	MsgNotUserPage     = "not a user search page"
	MsgNotBookmarks    = "not the bookmarks page"
	MsgNoSubscriptions = "no subscriptions yet"
	MsgCannotClose     = "this page cannot be closed"
	MsgRendering       = "rendering details…"
)

func MsgPlaying(title string) string {
	return "playing: " + title
}

func MsgUserAdded(uploader string) string {
	return "user " + uploader + " added to subscriptions"
}

func MsgUserRemoved(uploader string) string {
	return "user " + uploader + " removed from subscriptions"
}

func MsgUserKnown(uploader string) string {
	return "already subscribed to " + uploader
}

func MsgNoResultsForUser(uploader string) string {
	return "no results found for user " + uploader
}

func MsgBookmarked(title string) string {
	return fmt.Sprintf("bookmarked '%s'", strings.TrimSpace(title))
}

func MsgAlreadyBookmarked(title string) string {
	return fmt.Sprintf("'%s' is already bookmarked", strings.TrimSpace(title))
}

func MsgCopied(url string) string {
	return "copied " + url
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgRefreshSummary(uploaders, videos, docCount int) string {
	base := fmt.Sprintf("refreshed: %d uploaders • %d videos", uploaders, videos)
	if docCount >= 0 {
		base += fmt.Sprintf(" • idx: %d docs", docCount)
	}
	return base
}
