package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/pulseboard/internal/domain/metric/entity"
)

// MetricPostgres implements MetricRepository for PostgreSQL
type MetricPostgres struct {
	pool *pgxpool.Pool
}

// NewMetricPostgres creates a new PostgreSQL metric repository
func NewMetricPostgres(pool *pgxpool.Pool) *MetricPostgres {
	return &MetricPostgres{pool: pool}
}

// Upsert inserts or replaces the metric row for (user_id, date)
func (r *MetricPostgres) Upsert(ctx context.Context, metric *entity.DailyMetric) error {
	query := `
		INSERT INTO daily_metrics (id, user_id, date, engagement, reach, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date)
		DO UPDATE SET engagement = EXCLUDED.engagement, reach = EXCLUDED.reach
	`

	_, err := r.pool.Exec(ctx, query,
		metric.ID,
		metric.UserID,
		metric.Date,
		metric.Engagement,
		metric.Reach,
		metric.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting daily metric: %w", err)
	}

	return nil
}

// ListByUserRange retrieves metrics with date in [from, to], ascending
func (r *MetricPostgres) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]entity.DailyMetric, error) {
	query := `
		SELECT id, user_id, date, engagement, reach, created_at
		FROM daily_metrics
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying daily metrics: %w", err)
	}
	defer rows.Close()

	var metrics []entity.DailyMetric
	for rows.Next() {
		var m entity.DailyMetric
		err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Date,
			&m.Engagement,
			&m.Reach,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning daily metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily metric rows: %w", err)
	}

	return metrics, nil
}

// DeleteOlderThan removes metrics dated before the cutoff
func (r *MetricPostgres) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM daily_metrics WHERE date < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old daily metrics: %w", err)
	}
	return tag.RowsAffected(), nil
}
