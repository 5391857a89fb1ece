package domain

import "errors"

// Domain errors (no external dependencies). Handlers map these to HTTP codes.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateReceipt = errors.New("receipt already recorded for this vendor, number and date")
	ErrDuplicateUpload  = errors.New("identical document already uploaded")
	ErrConflict         = errors.New("conflict with current state")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("access denied")
)
