package repository

import "errors"

// Common repository errors. Handlers map these to error-coded responses.
var (
	ErrNotFound                = errors.New("record not found")
	ErrDuplicate               = errors.New("record already exists")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInsufficientDrawerStock = errors.New("insufficient stock in drawer")
)
