package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vadim/pulseboard/internal/domain/metric/dao"
	"github.com/vadim/pulseboard/internal/domain/metric/entity"
)

// Service handles business logic for daily metrics
type Service struct {
	metrics dao.MetricRepository
}

// New creates a new metric service
func New(metrics dao.MetricRepository) *Service {
	return &Service{metrics: metrics}
}

// UpsertInput represents input for recording a day's metrics
type UpsertInput struct {
	UserID     string
	Date       time.Time
	Engagement int
	Reach      int
}

// UpsertMetric records aggregate metrics for one calendar day. The date is
// truncated to midnight UTC so that two timestamps on the same day hit the
// same row.
func (s *Service) UpsertMetric(ctx context.Context, in UpsertInput) (*entity.DailyMetric, error) {
	metric := &entity.DailyMetric{
		ID:         uuid.New().String(),
		UserID:     in.UserID,
		Date:       truncateToDay(in.Date),
		Engagement: in.Engagement,
		Reach:      in.Reach,
		CreatedAt:  time.Now(),
	}

	if err := metric.Validate(); err != nil {
		return nil, err
	}

	if err := s.metrics.Upsert(ctx, metric); err != nil {
		return nil, err
	}

	return metric, nil
}

// ListRange retrieves a user's metrics with date in [from, to], ascending
func (s *Service) ListRange(ctx context.Context, userID string, from, to time.Time) ([]entity.DailyMetric, error) {
	return s.metrics.ListByUserRange(ctx, userID, truncateToDay(from), truncateToDay(to))
}

// PruneOlderThan removes metric rows dated before the cutoff, returning the
// number of rows deleted
func (s *Service) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.metrics.DeleteOlderThan(ctx, truncateToDay(cutoff))
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
