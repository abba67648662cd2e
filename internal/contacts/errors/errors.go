package errors

import "errors"

var (
	ErrNotFound = errors.New("contact not found")

	ErrInvalidID = errors.New("invalid contact ID format")

	ErrDuplicate = errors.New("contact with this email or mobile already exists")
)
