package service

import (
	"strings"
	"unicode"
)

const (
	maxNameLength        = 100
	maxPhoneLength       = 32
	maxAddressLength     = 300
	maxDescriptionLength = 500
	maxNotesLength       = 500
	maxURLLength         = 500
)

// sanitizeText trims s, drops control characters (newlines and tabs become spaces)
// and caps the result at max runes.
func sanitizeText(s string, max int) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > max {
		cleaned = strings.TrimSpace(string(runes[:max]))
	}
	return cleaned
}
