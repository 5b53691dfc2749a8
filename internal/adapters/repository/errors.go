package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrInvalidRange  = errors.New("invalid date range")
	ErrInvalidRecord = errors.New("invalid record")
	ErrClosed        = errors.New("store closed")
)
