package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncateEnd shortens s to at most limit columns, appending an ellipsis
// if truncation occurs.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	return runewidth.Truncate(s, limit, "…")
}

// oneLine folds all whitespace runs, newlines included, into single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
