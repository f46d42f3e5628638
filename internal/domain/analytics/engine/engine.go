// Package engine implements the analytics computations behind the dashboard:
// engagement totals, top-performer selection, period-over-period trend and
// time-series gap-filling. Every function is a pure transformation of
// already-fetched records; the engine performs no I/O and has no error paths.
package engine

import (
	"time"

	"github.com/vadim/pulseboard/internal/domain/analytics/entity"
	metricentity "github.com/vadim/pulseboard/internal/domain/metric/entity"
	postentity "github.com/vadim/pulseboard/internal/domain/post/entity"
)

// Clock returns the current instant. Injected so trend windows and day
// ranges are deterministic under test.
type Clock func() time.Time

// trendWindowDays is the length of each period-over-period comparison window
const trendWindowDays = 30

// BuildSummary computes the full analytics summary over one user's posts.
//
// The input must be ordered most-recent-first (posted_at DESC): among posts
// with equal engagement the first one encountered wins top performer, which
// under that ordering prefers the most recently posted.
//
// An empty input yields the zero summary with a neutral trend; it is a
// defined terminal case, not an error.
func BuildSummary(posts []postentity.Post, now time.Time) entity.AnalyticsSummary {
	if len(posts) == 0 {
		return entity.AnalyticsSummary{
			Trend: entity.TrendResult{Percentage: 0, Direction: entity.TrendNeutral},
		}
	}

	totalEngagement := 0
	for i := range posts {
		totalEngagement += posts[i].Engagement()
	}

	// Average only over posts that actually carry a rate; an unknown rate
	// is excluded from the denominator, not treated as zero.
	rateSum := 0.0
	rateCount := 0
	for i := range posts {
		if posts[i].EngagementRate != nil {
			rateSum += *posts[i].EngagementRate
			rateCount++
		}
	}
	averageRate := 0.0
	if rateCount > 0 {
		averageRate = rateSum / float64(rateCount)
	}

	current, previous := windowTotals(posts, now)

	return entity.AnalyticsSummary{
		TotalEngagement:       totalEngagement,
		AverageEngagementRate: averageRate,
		TopPerformingPost:     TopPerformer(posts),
		Trend:                 AnalyzeTrend(current, previous),
	}
}

// TopPerformer returns the highest-engagement post as a projection, or nil
// for an empty input. Ties are broken by input order: strict > against the
// running maximum, so the first of equally-engaging posts wins.
func TopPerformer(posts []postentity.Post) *entity.TopPost {
	var top *entity.TopPost
	maxEngagement := -1

	for i := range posts {
		engagement := posts[i].Engagement()
		if engagement > maxEngagement {
			maxEngagement = engagement
			top = &entity.TopPost{
				ID:         posts[i].ID,
				Caption:    posts[i].Caption,
				Engagement: engagement,
				Platform:   string(posts[i].Platform),
				PostedAt:   posts[i].PostedAt,
			}
		}
	}

	return top
}

// AnalyzeTrend compares engagement totals of two adjacent windows.
//
// Growth from a zero previous window is reported as exactly 100% up: the
// ratio is undefined, but growth from nothing is still growth. The rule is
// a deliberate product policy; keep it.
func AnalyzeTrend(current, previous int) entity.TrendResult {
	if previous > 0 {
		percentage := float64(current-previous) / float64(previous) * 100

		direction := entity.TrendNeutral
		if percentage > 0 {
			direction = entity.TrendUp
		} else if percentage < 0 {
			direction = entity.TrendDown
			percentage = -percentage
		}

		return entity.TrendResult{Percentage: percentage, Direction: direction}
	}

	if current > 0 {
		return entity.TrendResult{Percentage: 100, Direction: entity.TrendUp}
	}

	return entity.TrendResult{Percentage: 0, Direction: entity.TrendNeutral}
}

// windowTotals sums engagement for the last 30 days and the 30 days before
// that. The earlier edge of each window is half-open so no instant is
// double-counted: previous is [now-60d, now-30d), current is [now-30d, now].
func windowTotals(posts []postentity.Post, now time.Time) (current, previous int) {
	currentStart := now.AddDate(0, 0, -trendWindowDays)
	previousStart := currentStart.AddDate(0, 0, -trendWindowDays)

	for i := range posts {
		postedAt := posts[i].PostedAt

		switch {
		case !postedAt.Before(currentStart) && !postedAt.After(now):
			current += posts[i].Engagement()
		case !postedAt.Before(previousStart) && postedAt.Before(currentStart):
			previous += posts[i].Engagement()
		}
	}

	return current, previous
}

// NormalizeSeries turns a sparse set of daily metrics into a dense sequence
// with exactly one point per calendar day from start to end inclusive,
// ascending. Days without a record are filled with zeros. Should storage
// ever hand back two records for the same date, the last one seen wins;
// the metric is unique per day and summing would double-count.
//
// A start after end yields an empty sequence.
func NormalizeSeries(metrics []metricentity.DailyMetric, start, end time.Time) []entity.TimeSeriesPoint {
	startDay := toDay(start)
	endDay := toDay(end)

	points := []entity.TimeSeriesPoint{}
	if startDay.After(endDay) {
		return points
	}

	byDate := make(map[string]metricentity.DailyMetric, len(metrics))
	for _, m := range metrics {
		byDate[m.DateString()] = m
	}

	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")

		point := entity.TimeSeriesPoint{Date: date}
		if m, ok := byDate[date]; ok {
			point.Engagement = m.Engagement
			point.Reach = m.Reach
		}

		points = append(points, point)
	}

	return points
}

// toDay truncates an instant to midnight UTC of its calendar day
func toDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
