// Package paging computes the scroll window of a page: which slice of its
// items fits on screen and where the window moves on scroll.
package paging

// Window is the half-open item range [Start, End) currently on screen.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PerPage is how many items of itemHeight rows fit in height rows.
func PerPage(height, itemHeight int) int {
	if height <= 0 || itemHeight <= 0 {
		return 0
	}
	return height / itemHeight
}

// Compute places a window of perPage items at start over count items. The
// window is pulled back so that it never ends short while earlier items
// exist, and never starts before zero.
func Compute(start, count, perPage int) Window {
	if perPage < 0 {
		perPage = 0
	}
	if start < 0 {
		start = 0
	}
	end := min(count, start+perPage)
	start = max(min(start, end-perPage), 0)
	if end < start {
		end = start
	}
	return Window{Start: start, End: end}
}

// Len is the number of items in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// Contains reports whether item i is inside the window.
func (w Window) Contains(i int) bool {
	return i >= w.Start && i < w.End
}

// ScrollDown returns the start of the next window. The last visible item
// becomes the first one, keeping one item of overlap.
func (w Window) ScrollDown(count int) int {
	next := w.End - 1
	if next < 0 || next >= count {
		return w.Start
	}
	return next
}

// ScrollUp returns the start of the previous window, computed as
// 2*Start - End + 1 and clamped at zero.
func (w Window) ScrollUp() int {
	prev := 2*w.Start - w.End + 1
	if prev > 0 {
		return prev
	}
	return 0
}
