package entity

import "errors"

// Domain errors for daily metrics
var (
	ErrEmptyUserID     = errors.New("user ID is required")
	ErrMissingDate     = errors.New("date is required")
	ErrNegativeCounter = errors.New("engagement and reach cannot be negative")
)
