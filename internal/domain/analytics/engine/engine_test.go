package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/pulseboard/internal/domain/analytics/entity"
	metricentity "github.com/vadim/pulseboard/internal/domain/metric/entity"
	postentity "github.com/vadim/pulseboard/internal/domain/post/entity"
)

// fixed "now" so trend windows are deterministic
var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func makePost(id string, likes, comments, shares *int, rate *float64, postedAt time.Time) postentity.Post {
	return postentity.Post{
		ID:             id,
		UserID:         "user-1",
		Platform:       postentity.PlatformInstagram,
		Likes:          likes,
		Comments:       comments,
		Shares:         shares,
		EngagementRate: rate,
		PostedAt:       postedAt,
	}
}

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name string
		post postentity.Post
		want int
	}{
		{
			name: "all counters present",
			post: makePost("p1", intPtr(10), intPtr(5), intPtr(3), nil, now),
			want: 18,
		},
		{
			name: "all counters unknown",
			post: makePost("p2", nil, nil, nil, nil, now),
			want: 0,
		},
		{
			name: "partial counters treated as zero",
			post: makePost("p3", intPtr(7), nil, intPtr(2), nil, now),
			want: 9,
		},
		{
			name: "zeros are valid values",
			post: makePost("p4", intPtr(0), intPtr(0), intPtr(0), nil, now),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.post.Engagement()
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestAnalyzeTrend(t *testing.T) {
	tests := []struct {
		name          string
		current       int
		previous      int
		wantPct       float64
		wantDirection entity.TrendDirection
	}{
		{"growth", 150, 100, 50, entity.TrendUp},
		{"decline reported as magnitude", 50, 100, 50, entity.TrendDown},
		{"both zero", 0, 0, 0, entity.TrendNeutral},
		{"growth from nothing is 100% up", 20, 0, 100, entity.TrendUp},
		{"exactly flat", 100, 100, 0, entity.TrendNeutral},
		{"total collapse", 0, 80, 100, entity.TrendDown},
		{"fractional change", 110, 100, 10, entity.TrendUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeTrend(tt.current, tt.previous)
			assert.InDelta(t, tt.wantPct, got.Percentage, 1e-9)
			assert.Equal(t, tt.wantDirection, got.Direction)
			assert.GreaterOrEqual(t, got.Percentage, 0.0)
		})
	}
}

func TestTopPerformer(t *testing.T) {
	t.Run("empty input returns nil", func(t *testing.T) {
		assert.Nil(t, TopPerformer(nil))
		assert.Nil(t, TopPerformer([]postentity.Post{}))
	})

	t.Run("highest engagement wins", func(t *testing.T) {
		posts := []postentity.Post{
			makePost("p1", intPtr(5), nil, nil, nil, now),
			makePost("p2", intPtr(50), intPtr(10), nil, nil, now.Add(-time.Hour)),
			makePost("p3", intPtr(20), nil, nil, nil, now.Add(-2*time.Hour)),
		}

		top := TopPerformer(posts)
		require.NotNil(t, top)
		assert.Equal(t, "p2", top.ID)
		assert.Equal(t, 60, top.Engagement)
	})

	t.Run("first of equal scores wins", func(t *testing.T) {
		// Input is most-recent-first, so the tie goes to the newer post.
		posts := []postentity.Post{
			makePost("newer", intPtr(30), nil, nil, nil, now),
			makePost("older", intPtr(30), nil, nil, nil, now.Add(-48*time.Hour)),
		}

		top := TopPerformer(posts)
		require.NotNil(t, top)
		assert.Equal(t, "newer", top.ID)
	})

	t.Run("all-zero posts still produce a winner", func(t *testing.T) {
		posts := []postentity.Post{
			makePost("p1", nil, nil, nil, nil, now),
			makePost("p2", intPtr(0), nil, nil, nil, now),
		}

		top := TopPerformer(posts)
		require.NotNil(t, top)
		assert.Equal(t, "p1", top.ID)
		assert.Equal(t, 0, top.Engagement)
	})

	t.Run("projection carries post fields", func(t *testing.T) {
		post := makePost("p1", intPtr(3), intPtr(2), intPtr(1), nil, now)
		post.Caption = strPtr("launch day")
		post.Platform = postentity.PlatformTikTok

		top := TopPerformer([]postentity.Post{post})
		require.NotNil(t, top)
		assert.Equal(t, "launch day", *top.Caption)
		assert.Equal(t, "tiktok", top.Platform)
		assert.Equal(t, now, top.PostedAt)
		assert.Equal(t, 6, top.Engagement)
	})
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := BuildSummary(nil, now)

	assert.Equal(t, 0, summary.TotalEngagement)
	assert.Equal(t, 0.0, summary.AverageEngagementRate)
	assert.Nil(t, summary.TopPerformingPost)
	assert.Equal(t, 0.0, summary.Trend.Percentage)
	assert.Equal(t, entity.TrendNeutral, summary.Trend.Direction)
}

func TestBuildSummaryAverageRateExcludesUnknown(t *testing.T) {
	posts := []postentity.Post{
		makePost("p1", intPtr(1), nil, nil, nil, now),
		makePost("p2", intPtr(1), nil, nil, floatPtr(10), now),
		makePost("p3", intPtr(1), nil, nil, floatPtr(20), now),
	}

	summary := BuildSummary(posts, now)

	// nil rates are excluded from the denominator: (10+20)/2, not /3
	assert.InDelta(t, 15.0, summary.AverageEngagementRate, 1e-9)
	assert.Equal(t, 3, summary.TotalEngagement)
}

func TestBuildSummaryNoRatesPresent(t *testing.T) {
	posts := []postentity.Post{
		makePost("p1", intPtr(4), nil, nil, nil, now),
	}

	summary := BuildSummary(posts, now)
	assert.Equal(t, 0.0, summary.AverageEngagementRate)
}

func TestBuildSummaryTrendWindows(t *testing.T) {
	posts := []postentity.Post{
		// current window: inside the last 30 days
		makePost("c1", intPtr(100), nil, nil, nil, now.AddDate(0, 0, -5)),
		makePost("c2", intPtr(50), nil, nil, nil, now.AddDate(0, 0, -29)),
		// previous window: 30..60 days back
		makePost("v1", intPtr(60), nil, nil, nil, now.AddDate(0, 0, -35)),
		makePost("v2", intPtr(40), nil, nil, nil, now.AddDate(0, 0, -59)),
		// older than both windows: counted in totals, ignored by the trend
		makePost("old", intPtr(999), nil, nil, nil, now.AddDate(0, 0, -90)),
	}

	summary := BuildSummary(posts, now)

	// current=150, previous=100 -> +50% up
	assert.InDelta(t, 50.0, summary.Trend.Percentage, 1e-9)
	assert.Equal(t, entity.TrendUp, summary.Trend.Direction)
	assert.Equal(t, 100+50+60+40+999, summary.TotalEngagement)
}

func TestBuildSummaryWindowBoundaries(t *testing.T) {
	currentStart := now.AddDate(0, 0, -30)

	t.Run("instant on the 30-day edge belongs to the current window", func(t *testing.T) {
		posts := []postentity.Post{
			makePost("edge", intPtr(10), nil, nil, nil, currentStart),
		}

		summary := BuildSummary(posts, now)
		// previous window empty, current > 0 -> 100% up
		assert.InDelta(t, 100.0, summary.Trend.Percentage, 1e-9)
		assert.Equal(t, entity.TrendUp, summary.Trend.Direction)
	})

	t.Run("instant just before the edge belongs to the previous window", func(t *testing.T) {
		posts := []postentity.Post{
			makePost("prev", intPtr(10), nil, nil, nil, currentStart.Add(-time.Nanosecond)),
		}

		summary := BuildSummary(posts, now)
		// current=0, previous=10 -> 100% down
		assert.InDelta(t, 100.0, summary.Trend.Percentage, 1e-9)
		assert.Equal(t, entity.TrendDown, summary.Trend.Direction)
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func metric(date time.Time, engagement, reach int) metricentity.DailyMetric {
	return metricentity.DailyMetric{
		ID:         "m-" + date.Format("2006-01-02"),
		UserID:     "user-1",
		Date:       date,
		Engagement: engagement,
		Reach:      reach,
	}
}

func TestNormalizeSeriesEmptyRecords(t *testing.T) {
	points := NormalizeSeries(nil, day(2024, 1, 1), day(2024, 1, 5))

	require.Len(t, points, 5)
	wantDates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}
	for i, p := range points {
		assert.Equal(t, wantDates[i], p.Date)
		assert.Equal(t, 0, p.Engagement)
		assert.Equal(t, 0, p.Reach)
	}
}

func TestNormalizeSeriesGapFilling(t *testing.T) {
	metrics := []metricentity.DailyMetric{
		metric(day(2024, 1, 2), 120, 1500),
		metric(day(2024, 1, 4), 80, 900),
	}

	points := NormalizeSeries(metrics, day(2024, 1, 1), day(2024, 1, 5))

	require.Len(t, points, 5)

	// recorded days round-trip exactly
	assert.Equal(t, 120, points[1].Engagement)
	assert.Equal(t, 1500, points[1].Reach)
	assert.Equal(t, 80, points[3].Engagement)
	assert.Equal(t, 900, points[3].Reach)

	// gaps are zero-filled
	for _, i := range []int{0, 2, 4} {
		assert.Equal(t, 0, points[i].Engagement, "day %s", points[i].Date)
		assert.Equal(t, 0, points[i].Reach, "day %s", points[i].Date)
	}
}

func TestNormalizeSeriesLengthAndOrder(t *testing.T) {
	start := day(2024, 2, 25)
	end := day(2024, 3, 5) // crosses a leap-February boundary

	points := NormalizeSeries(nil, start, end)

	require.Len(t, points, 10)
	assert.Equal(t, "2024-02-29", points[4].Date)

	seen := make(map[string]bool, len(points))
	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i-1].Date, points[i].Date, "dates must be strictly ascending")
	}
	for _, p := range points {
		assert.False(t, seen[p.Date], "duplicate date %s", p.Date)
		seen[p.Date] = true
	}
}

func TestNormalizeSeriesSingleDay(t *testing.T) {
	metrics := []metricentity.DailyMetric{metric(day(2024, 1, 1), 7, 11)}

	points := NormalizeSeries(metrics, day(2024, 1, 1), day(2024, 1, 1))

	require.Len(t, points, 1)
	assert.Equal(t, entity.TimeSeriesPoint{Date: "2024-01-01", Engagement: 7, Reach: 11}, points[0])
}

func TestNormalizeSeriesInvertedRange(t *testing.T) {
	points := NormalizeSeries(nil, day(2024, 1, 5), day(2024, 1, 1))
	assert.Empty(t, points)
	assert.NotNil(t, points)
}

func TestNormalizeSeriesTruncatesIntraDayTimes(t *testing.T) {
	// start late in its day, end early in its day: the day count must not
	// be affected by the time-of-day components
	start := time.Date(2024, 1, 1, 23, 45, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 15, 0, 0, time.UTC)

	points := NormalizeSeries(nil, start, end)

	require.Len(t, points, 3)
	assert.Equal(t, "2024-01-01", points[0].Date)
	assert.Equal(t, "2024-01-03", points[2].Date)
}

func TestNormalizeSeriesDuplicateDateLastSeenWins(t *testing.T) {
	metrics := []metricentity.DailyMetric{
		metric(day(2024, 1, 2), 10, 100),
		metric(day(2024, 1, 2), 30, 300),
	}

	points := NormalizeSeries(metrics, day(2024, 1, 2), day(2024, 1, 2))

	require.Len(t, points, 1)
	// deterministically the last record, never the sum
	assert.Equal(t, 30, points[0].Engagement)
	assert.Equal(t, 300, points[0].Reach)
}

func TestNormalizeSeriesIdempotent(t *testing.T) {
	metrics := []metricentity.DailyMetric{
		metric(day(2024, 1, 2), 120, 1500),
		metric(day(2024, 1, 4), 80, 900),
	}

	first := NormalizeSeries(metrics, day(2024, 1, 1), day(2024, 1, 7))
	second := NormalizeSeries(metrics, day(2024, 1, 1), day(2024, 1, 7))

	assert.Equal(t, first, second)
}
