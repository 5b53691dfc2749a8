package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrBatchTooLarge = errors.New("triage batch too large")
	ErrInvalidRange  = errors.New("invalid date range")
)
