package dao

import (
	"context"
	"time"

	"github.com/vadim/pulseboard/internal/domain/metric/entity"
)

// MetricRepository defines the interface for daily metric data access
type MetricRepository interface {
	// Upsert inserts a metric or replaces the existing row for the same
	// user and date (metrics are unique per user per day)
	Upsert(ctx context.Context, metric *entity.DailyMetric) error

	// ListByUserRange retrieves a user's metrics with date in [from, to],
	// ascending by date. Days without a row are simply absent.
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]entity.DailyMetric, error)

	// DeleteOlderThan removes metrics dated before the cutoff, returning
	// the number of rows deleted. Used for retention.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
