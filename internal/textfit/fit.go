package textfit

import (
	"strings"
	"unicode/utf8"
)

// FitSplit fits text into exactly width columns and returns the fitted part
// together with the text that did not fit.
//
// When a rune overflows the width, the break moves back to the start of the
// ASCII word it interrupts so words are not cut in half. The rune at the
// break (the word boundary, or the overflowing rune when the word starts at
// the beginning of text) is dropped. The fitted part is always padded with
// spaces to exactly width columns.
func FitSplit(text string, width int) (string, string) {
	if width <= 0 {
		return "", text
	}

	runes := []rune(text)
	used := 0
	for i, r := range runes {
		used += RuneWidth(r)
		if used <= width {
			continue
		}

		cut := i
		for cut >= 0 && isWordRune(runes[cut]) {
			cut--
		}
		if cut < 0 {
			cut = i
		}

		fitted := runes[:cut]
		return pad(string(fitted), width-realWidthRunes(fitted)), string(runes[cut+1:])
	}

	return pad(text, width-used), ""
}

// Cut truncates text at width columns without looking for a word boundary
// and pads the result to exactly width columns. A wide rune that would
// straddle the edge is dropped.
func Cut(text string, width int) string {
	if width <= 0 {
		return ""
	}
	used := 0
	for i, r := range text {
		w := RuneWidth(r)
		if used+w > width {
			return pad(text[:i], width-used)
		}
		used += w
	}
	return pad(text, width-used)
}

// Fit is FitSplit without the remainder.
func Fit(text string, width int) string {
	fitted, _ := FitSplit(text, width)
	return fitted
}

// QuickFit truncates or right-pads text to width runes. It ignores wide
// runes and is meant for ASCII input such as numbers and timestamps.
func QuickFit(text string, width int) string {
	return QuickFitPad(text, width, true, ' ')
}

// QuickFitPad is QuickFit with a custom pad rune. With leftAlign false the
// padding goes in front of text.
func QuickFitPad(text string, width int, leftAlign bool, padRune rune) string {
	if width <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(text)
	if n > width {
		return string([]rune(text)[:width])
	}
	padding := strings.Repeat(string(padRune), width-n)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

func isWordRune(r rune) bool {
	return r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}

func pad(s string, n int) string {
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}
