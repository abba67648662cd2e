package errors

import "errors"

var (
	ErrNotFound        = errors.New("tag not found")
	ErrDuplicate       = errors.New("tag already exists")
	ErrInvalidID       = errors.New("invalid tag id")
	ErrBookingNotFound = errors.New("booking not found")
)
