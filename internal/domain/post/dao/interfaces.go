package dao

import (
	"context"
	"time"

	"github.com/vadim/pulseboard/internal/domain/post/entity"
)

// PostFilter contains filters for listing posts
type PostFilter struct {
	Platform *entity.Platform
}

// ListOptions contains pagination options. Posts are always returned
// most-recent-first (posted_at DESC); the analytics engine's tie-break
// depends on that ordering.
type ListOptions struct {
	Limit  int
	Offset int
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	// Create inserts a new post
	Create(ctx context.Context, post *entity.Post) error

	// GetByID retrieves a post by its ID, nil if not found
	GetByID(ctx context.Context, id string) (*entity.Post, error)

	// Delete removes a post by ID
	Delete(ctx context.Context, id string) error

	// ListByUser retrieves all posts for a user ordered by posted_at DESC
	ListByUser(ctx context.Context, userID string, filter PostFilter, opts ListOptions) ([]entity.Post, error)

	// CountByUser returns the number of posts matching the filter
	CountByUser(ctx context.Context, userID string, filter PostFilter) (int64, error)

	// UpdateEngagement updates only the engagement counters of a post
	UpdateEngagement(ctx context.Context, id string, likes, comments, shares *int) error

	// ListStale retrieves posts whose counters were last refreshed before
	// the cutoff. Used by the engagement refresh scheduler.
	ListStale(ctx context.Context, updatedBefore time.Time, limit int) ([]entity.Post, error)
}
