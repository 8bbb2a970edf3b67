// Package textfit lays text out in terminal columns: it measures strings in
// display cells, fits them to exact widths and formats the numeric fields
// shown next to each video.
package textfit

import (
	"golang.org/x/text/width"
)

// RuneWidth reports how many terminal columns r occupies: 2 for East Asian
// Wide runes, 1 for everything else.
func RuneWidth(r rune) int {
	if width.LookupRune(r).Kind() == width.EastAsianWide {
		return 2
	}
	return 1
}

// RealWidth returns the display width of s in terminal columns.
func RealWidth(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

func realWidthRunes(rs []rune) int {
	w := 0
	for _, r := range rs {
		w += RuneWidth(r)
	}
	return w
}
