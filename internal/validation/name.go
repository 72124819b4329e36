package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name is too long (max 100 characters)")
)

// ValidateName validates a display name. Length is counted in characters so
// names in non-Latin scripts get the same allowance.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return ErrNameRequired
	}

	if utf8.RuneCountInString(trimmed) > 100 {
		return ErrNameTooLong
	}

	return nil
}
