package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	MaxTermLength     = 256
	MaxUploaderLength = 64
)

// ErrEmptyUploader is returned for blank uploader names.
var ErrEmptyUploader = errors.New("uploader name cannot be empty")

// SanitizeTerm strips control characters, collapses whitespace runs and
// caps the term at MaxTermLength runes.
func SanitizeTerm(term string) string {
	var b strings.Builder
	space := false
	n := 0
	for _, r := range strings.TrimSpace(term) {
		if n == MaxTermLength {
			break
		}
		switch {
		case unicode.IsSpace(r):
			if space {
				continue
			}
			space = true
			r = ' '
		case unicode.IsControl(r):
			continue
		default:
			space = false
		}
		b.WriteRune(r)
		n++
	}
	return strings.TrimSpace(b.String())
}

// ValidateUploader trims name and checks that it can be used as a path
// segment of the catalog API.
func ValidateUploader(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyUploader
	}
	if len([]rune(name)) > MaxUploaderLength {
		return "", fmt.Errorf("uploader name too long (max %d characters)", MaxUploaderLength)
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			continue
		}
		return "", fmt.Errorf("uploader name contains invalid character %q", r)
	}
	return name, nil
}

// ParseUploaderQuery splits the "uploader/term" prompt input. The term is
// optional.
func ParseUploaderQuery(input string) (uploader, term string, err error) {
	name, rest, _ := strings.Cut(input, "/")
	uploader, err = ValidateUploader(name)
	if err != nil {
		return "", "", err
	}
	return uploader, SanitizeTerm(rest), nil
}
