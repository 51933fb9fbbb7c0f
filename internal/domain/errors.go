package domain

import "errors"

// Error kinds of the reservation engine. Package-level errors in usecases,
// services and repositories wrap one of these so callers can classify a
// failure with errors.Is regardless of the layer that produced it.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrSlotUnavailable   = errors.New("slot unavailable")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrForbidden         = errors.New("forbidden")
)
