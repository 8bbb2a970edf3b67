package session

import (
	"strings"

	"github.com/pders01/vidr/internal/textfit"
)

// PageBar is the page bar split into the labels left of the current page,
// the current label and the labels to its right.
type PageBar struct {
	Left    string
	Current string
	Right   string
}

// String joins the three segments.
func (b PageBar) String() string { return b.Left + b.Current + b.Right }

// Width is the real width of the whole bar.
func (b PageBar) Width() int { return textfit.RealWidth(b.String()) }

// LayoutPageBar lays the page labels out around the current one so that
// the bar fills width columns without exceeding them. Neighbours are added
// pairwise, nearest first, and the bar is filled up with dashes. A
// non-positive width yields an empty bar.
func (s *Session) LayoutPageBar(width int) PageBar {
	if width <= 0 {
		return PageBar{}
	}

	bar := PageBar{Left: "--", Current: s.Current().Label(), Right: "--"}
	if bar.Width() > width {
		return PageBar{Current: textfit.Fit(bar.Current, width)}
	}

	prev := bar
	for i := 1; bar.Width() < width; i++ {
		before, after := s.current-i, s.current+i
		if before < 0 && after >= len(s.pages) {
			break
		}
		prev = bar
		if before >= 0 {
			bar.Left = "----" + s.pages[before].Label() + "----" + bar.Left
		}
		if after < len(s.pages) {
			bar.Right += "----" + s.pages[after].Label() + "----"
		}
	}
	if bar.Width() > width-3 {
		bar = prev
	}

	var left, right strings.Builder
	for w := bar.Width(); w < width-3; w += 2 {
		left.WriteByte('-')
		right.WriteByte('-')
	}
	bar.Left = left.String() + bar.Left
	bar.Right += right.String()
	for bar.Width() < width-1 {
		bar.Right += "-"
	}
	return bar
}
