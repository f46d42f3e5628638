package entity

import (
	"time"
)

// TrendDirection classifies the sign of a period-over-period change
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// TrendResult is the period-over-period engagement change. Percentage is
// always the non-negative magnitude; Direction alone carries the sign.
type TrendResult struct {
	Percentage float64        `json:"percentage"`
	Direction  TrendDirection `json:"direction"`
}

// TopPost is the projection of the highest-engagement post
type TopPost struct {
	ID         string    `json:"id"`
	Caption    *string   `json:"caption"`
	Engagement int       `json:"engagement"`
	Platform   string    `json:"platform"`
	PostedAt   time.Time `json:"postedAt"`
}

// AnalyticsSummary is the full dashboard summary for one user's posts
type AnalyticsSummary struct {
	TotalEngagement       int         `json:"totalEngagement"`
	AverageEngagementRate float64     `json:"averageEngagementRate"`
	TopPerformingPost     *TopPost    `json:"topPerformingPost"`
	Trend                 TrendResult `json:"trend"`
}

// TimeSeriesPoint is one day of the dense metrics series. Days with no
// source record carry zero engagement and reach.
type TimeSeriesPoint struct {
	Date       string `json:"date"` // ISO YYYY-MM-DD
	Engagement int    `json:"engagement"`
	Reach      int    `json:"reach"`
}
