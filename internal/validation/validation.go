package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ErrLocationTooLong is returned when location length exceeds the maximum.
var ErrLocationTooLong = errors.New("location too long")

// ErrLocationInvalidChars is returned when location contains disallowed characters.
var ErrLocationInvalidChars = errors.New("location contains invalid characters")

// maxLocationRunes bounds the location argument; the longest real
// administrative names are well under this.
const maxLocationRunes = 30

// ValidateLocation trims the input and enforces a length bound and allowed
// characters: letters (Unicode), digits, space, comma, hyphen. Location is an
// optional argument on every tool, so an empty string passes through as-is.
func ValidateLocation(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}
	r := []rune(s)
	if len(r) > maxLocationRunes {
		return "", ErrLocationTooLong
	}
	for _, c := range r {
		if !isAllowedLocationRune(c) {
			return "", ErrLocationInvalidChars
		}
	}
	return s, nil
}

// DisplayLocation appends 市 to a bare place name lacking any administrative
// suffix. Forecast lookups use it as the upstream filter and display label;
// local matching still runs variant expansion so suffix spellings agree.
func DisplayLocation(location string) string {
	if location == "" {
		return location
	}
	for _, suffix := range []string{"市", "縣", "鄉", "鎮"} {
		if strings.Contains(location, suffix) {
			return location
		}
	}
	return location + "市"
}

// isAllowedLocationRune returns true for letters (Unicode), digits, space, comma, hyphen.
func isAllowedLocationRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', ',', '-':
		return true
	}
	return false
}
