// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Maximum text lengths, in characters.
const (
	MaxPostText    = 10000
	MaxCommentText = 2000
)

// ValidateText trims value and rejects it when empty or longer than max runes.
// It returns the trimmed text to store.
func ValidateText(field, value string, max int) (string, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", fmt.Errorf("%s must not be empty", field)
	}
	if max > 0 && utf8.RuneCountInString(text) > max {
		return "", fmt.Errorf("%s must not exceed %d characters", field, max)
	}
	return text, nil
}
