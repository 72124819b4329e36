package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail checks the address reported by an identity provider before it
// is stored. net/mail follows RFC 5322.
func ValidateEmail(email string) error {
	// RFC 5321: 254 characters including the @
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	if email == "" {
		return errors.New("email address is required")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}

	return nil
}
