package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrInvalidSortField = errors.New("sort field is not sortable")

	ErrContactNotFound = errors.New("contact not found")
)
