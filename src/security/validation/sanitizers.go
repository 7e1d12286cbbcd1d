package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var ErrValidationFailed = errors.New("validation failed")

var strictHTMLPolicy *bluemonday.Policy

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy() // Removes all HTML tags
}

// SanitizeText removes all HTML tags and attributes from an input string,
// preventing XSS before saving to the database.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// ValidateStringNotEmpty fails when the trimmed value is empty.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength fails when the value exceeds maxLen runes.
func ValidateStringMaxLength(s string, maxLen int, fieldName string) error {
	if len([]rune(s)) > maxLen {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidationFailed, fieldName, maxLen)
	}
	return nil
}
