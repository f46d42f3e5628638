package policy

import (
	"context"
	"time"

	"github.com/vadim/pulseboard/internal/domain/post/entity"
	"github.com/vadim/pulseboard/internal/domain/post/service"
)

// InsightsFetcher defines the interface for fetching engagement counters
// from the upstream platform API. Defined here (consumer), not in the
// upstream package (provider).
type InsightsFetcher interface {
	FetchInsights(ctx context.Context, in FetchInsightsInput) (*FetchInsightsOutput, error)
}

// FetchInsightsInput represents input for fetching post insights
type FetchInsightsInput struct {
	Platform entity.Platform
	PostID   string
}

// FetchInsightsOutput represents freshly fetched engagement counters.
// A nil counter means the platform does not expose that metric.
type FetchInsightsOutput struct {
	Likes    *int
	Comments *int
	Shares   *int
}

// StaleLister defines the subset of the repository the refresh loop needs
type StaleLister interface {
	ListStale(ctx context.Context, updatedBefore time.Time, limit int) ([]entity.Post, error)
}

// Policy orchestrates post use-cases
type Policy struct {
	svc      *service.Service
	insights InsightsFetcher
	stale    StaleLister

	// staleAfter controls how old a post's counters may get before the
	// refresh loop picks it up again.
	staleAfter time.Duration
	batchSize  int
}

// New creates a new post policy
func New(svc *service.Service, insights InsightsFetcher, stale StaleLister, staleAfter time.Duration) *Policy {
	return &Policy{
		svc:        svc,
		insights:   insights,
		stale:      stale,
		staleAfter: staleAfter,
		batchSize:  50,
	}
}

// CreatePost creates a new post record
func (p *Policy) CreatePost(ctx context.Context, in service.CreateInput) (*entity.Post, error) {
	return p.svc.CreatePost(ctx, in)
}

// GetPost retrieves a post by ID for the given user
func (p *Policy) GetPost(ctx context.Context, userID, id string) (*entity.Post, error) {
	return p.svc.GetPost(ctx, userID, id)
}

// DeletePost deletes a post for the given user
func (p *Policy) DeletePost(ctx context.Context, userID, id string) error {
	return p.svc.DeletePost(ctx, userID, id)
}

// ListPosts retrieves a user's posts, most recent first
func (p *Policy) ListPosts(ctx context.Context, in service.ListInput) (*service.ListOutput, error) {
	return p.svc.ListPosts(ctx, in)
}

// RefreshEngagement pulls fresh counters for a single post from the
// upstream platform API and stores them
func (p *Policy) RefreshEngagement(ctx context.Context, userID, id string) (*entity.Post, error) {
	post, err := p.svc.GetPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	out, err := p.insights.FetchInsights(ctx, FetchInsightsInput{
		Platform: post.Platform,
		PostID:   post.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := p.svc.UpdateEngagement(ctx, post.ID, out.Likes, out.Comments, out.Shares); err != nil {
		return nil, err
	}

	return p.svc.GetPost(ctx, userID, id)
}

// ProcessStaleEngagement refreshes counters for posts that have not been
// updated recently. Called periodically by the scheduler; a failure on one
// post does not abort the batch.
func (p *Policy) ProcessStaleEngagement(ctx context.Context) error {
	cutoff := time.Now().Add(-p.staleAfter)

	posts, err := p.stale.ListStale(ctx, cutoff, p.batchSize)
	if err != nil {
		return err
	}

	var lastErr error
	for i := range posts {
		post := &posts[i]

		out, err := p.insights.FetchInsights(ctx, FetchInsightsInput{
			Platform: post.Platform,
			PostID:   post.ID,
		})
		if err != nil {
			lastErr = err
			continue
		}

		if err := p.svc.UpdateEngagement(ctx, post.ID, out.Likes, out.Comments, out.Shares); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
