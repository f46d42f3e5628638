package entity

import "errors"

// Domain errors for analytics
var (
	// ErrInvalidDayRange is returned when the requested series length is
	// outside the supported 1..365 day window
	ErrInvalidDayRange = errors.New("days parameter must be between 1 and 365")
)
