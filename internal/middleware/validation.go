package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateMessageText validates chat message text.
func ValidateMessageText(text string) error {
	if len(text) == 0 {
		return errors.New("message text cannot be empty")
	}
	if len(text) > 100000 { // ~100KB limit
		return errors.New("message text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("message text must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a session ID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid session ID format")
	}
	return nil
}

// ValidateMealID validates a favourite meal ID.
func ValidateMealID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid meal ID format")
	}
	return nil
}

// ValidateTitle validates a session title.
func ValidateTitle(title string) error {
	if len(title) > 256 {
		return errors.New("title exceeds maximum length")
	}
	if !utf8.ValidString(title) {
		return errors.New("title must be valid UTF-8")
	}
	return nil
}
