package models

import (
	"errors"
	"fmt"
)

var (
	ErrContactNotFound      = errors.New("contact not found")
	ErrDonationNotFound     = errors.New("donation not found")
	ErrNoValidContactsFound = errors.New("no valid contacts found")
)

// ValidationError reports a field that must be filled before a contact can be saved.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
