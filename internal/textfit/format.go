package textfit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidArgument is returned by Center when it gets fewer than two
// items or a non-positive width. The fitters do not return it: FitSplit and
// Fit yield an empty fitted part for a non-positive width.
var ErrInvalidArgument = errors.New("invalid argument")

// FormatInt renders n in exactly width characters. Values that do not fit
// are scaled to thousands, millions or billions with a k, m or b suffix.
// Billions are the last step: a value still too wide is truncated.
func FormatInt(n int64, width int) string {
	return QuickFit(truncInt(n, width), width)
}

func truncInt(n int64, width int) string {
	switch {
	case n < pow10(width):
		return strconv.FormatInt(n, 10)
	case n/1_000 < pow10(width-1):
		return strconv.FormatInt(n/1_000, 10) + "k"
	case n/1_000_000 < pow10(width-1):
		return strconv.FormatInt(n/1_000_000, 10) + "m"
	default:
		return strconv.FormatInt(n/1_000_000_000, 10) + "b"
	}
}

func pow10(exp int) int64 {
	if exp <= 0 {
		return 1
	}
	if exp >= 19 {
		return math.MaxInt64
	}
	p := int64(1)
	for i := 0; i < exp; i++ {
		p *= 10
	}
	return p
}

// FormatDuration renders a length in seconds as a clock (HH:MM:SS) with the
// leading zero fields removed. At most four leading characters are
// stripped, so anything under a minute keeps its "0:" prefix.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hms := time.Unix(int64(seconds), 0).UTC().Format("15:04:05")
	i := 0
	for i < 4 && (hms[i] == '0' || hms[i] == ':') {
		i++
	}
	return hms[i:]
}

// FormatDate renders t as dd/mm/yy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/06")
}

// Center spreads items across width with equal spacing between them and
// centers the resulting line. Spacing and the left margin are floor
// divided, so leftover columns end up on the right and are not emitted.
func Center(items []string, width int) (string, error) {
	if len(items) < 2 {
		return "", fmt.Errorf("center %d items: %w", len(items), ErrInvalidArgument)
	}
	if width <= 0 {
		return "", fmt.Errorf("center in width %d: %w", width, ErrInvalidArgument)
	}

	total := 0
	for _, item := range items {
		total += utf8.RuneCountInString(item)
	}
	spacing := floorDiv(width-total, len(items)-1)
	if spacing < 0 {
		spacing = 0
	}

	line := strings.Join(items, strings.Repeat(" ", spacing))
	margin := floorDiv(width-utf8.RuneCountInString(line), 2)
	if margin < 0 {
		margin = 0
	}
	return strings.Repeat(" ", margin) + line, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
