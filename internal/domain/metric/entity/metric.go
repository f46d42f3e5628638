package entity

import (
	"time"
)

// DailyMetric represents one calendar day of aggregate engagement and reach
// for a user. A user has at most one metric row per day.
type DailyMetric struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Date       time.Time `json:"date"` // day precision, midnight UTC
	Engagement int       `json:"engagement"`
	Reach      int       `json:"reach"`
	CreatedAt  time.Time `json:"created_at"`
}

// DateString returns the metric's date as ISO YYYY-MM-DD
func (m *DailyMetric) DateString() string {
	return m.Date.Format("2006-01-02")
}

// Validate validates the metric before persisting
func (m *DailyMetric) Validate() error {
	if m.UserID == "" {
		return ErrEmptyUserID
	}
	if m.Date.IsZero() {
		return ErrMissingDate
	}
	if m.Engagement < 0 || m.Reach < 0 {
		return ErrNegativeCounter
	}
	return nil
}
