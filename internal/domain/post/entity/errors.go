package entity

import "errors"

// Domain errors for posts
var (
	// Validation errors
	ErrEmptyUserID     = errors.New("user ID is required")
	ErrInvalidPlatform = errors.New("platform must be one of: instagram, tiktok, twitter, linkedin")
	ErrNegativeCounter = errors.New("engagement counters cannot be negative")
	ErrNegativeRate    = errors.New("engagement rate cannot be negative")
	ErrMissingPostedAt = errors.New("posted_at is required")

	// Business logic errors
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("post belongs to another user")

	// Upstream API errors
	ErrUpstreamFailure      = errors.New("platform API request failed")
	ErrUpstreamRateLimited  = errors.New("platform API rate limit exceeded")
	ErrUpstreamUnauthorized = errors.New("platform access token is invalid or expired")
)
