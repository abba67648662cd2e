package errors

import "errors"

var (
	ErrNotFound      = errors.New("location not found")
	ErrTableNotFound = errors.New("table not found")
	ErrInvalidID     = errors.New("invalid location ID format")
)
