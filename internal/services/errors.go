package services

import "errors"

// Domain errors. Handlers map these to HTTP statuses; everything else is
// treated as a persistence failure and surfaced as a generic 500.
var (
	ErrCardNotFound    = errors.New("card not found")
	ErrRecordNotFound  = errors.New("record not found")
	ErrUnsupportedMode = errors.New("only 'expense' and 'income' are supported")
	ErrInvalidValue    = errors.New("value must be a non-negative integer")
)
