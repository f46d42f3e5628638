package policy

import (
	"context"
	"time"

	"github.com/vadim/pulseboard/internal/domain/analytics/engine"
	"github.com/vadim/pulseboard/internal/domain/analytics/entity"
	metricentity "github.com/vadim/pulseboard/internal/domain/metric/entity"
	postentity "github.com/vadim/pulseboard/internal/domain/post/entity"
)

// MaxSeriesDays bounds the daily series request range
const (
	MinSeriesDays = 1
	MaxSeriesDays = 365

	// DefaultSeriesDays is used when the caller does not specify a range
	DefaultSeriesDays = 30
)

// PostLister defines the posts the analytics use-cases need. Implementations
// must return posts most-recent-first (posted_at DESC); the engine's
// tie-break depends on it.
type PostLister interface {
	ListAllByUser(ctx context.Context, userID string) ([]postentity.Post, error)
}

// MetricLister defines the daily metrics the analytics use-cases need
type MetricLister interface {
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]metricentity.DailyMetric, error)
}

// Policy orchestrates analytics use-cases: fetch one consistent snapshot of
// a user's records, hand it to the pure engine, return the result
type Policy struct {
	posts   PostLister
	metrics MetricLister
	clock   engine.Clock
}

// New creates a new analytics policy. A nil clock defaults to time.Now.
func New(posts PostLister, metrics MetricLister, clock engine.Clock) *Policy {
	if clock == nil {
		clock = time.Now
	}
	return &Policy{
		posts:   posts,
		metrics: metrics,
		clock:   clock,
	}
}

// Summary computes the analytics summary over all of the user's posts
func (p *Policy) Summary(ctx context.Context, userID string) (*entity.AnalyticsSummary, error) {
	posts, err := p.posts.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := engine.BuildSummary(posts, p.clock())
	return &summary, nil
}

// DailySeries returns the dense per-day metrics series for the last N days,
// today included. days outside [1, 365] is rejected with ErrInvalidDayRange.
func (p *Policy) DailySeries(ctx context.Context, userID string, days int) ([]entity.TimeSeriesPoint, error) {
	if days < MinSeriesDays || days > MaxSeriesDays {
		return nil, entity.ErrInvalidDayRange
	}

	now := p.clock()
	end := now
	start := now.AddDate(0, 0, -(days - 1))

	metrics, err := p.metrics.ListRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return engine.NormalizeSeries(metrics, start, end), nil
}
