// Package exports renders analytics results into downloadable files.
package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/vadim/pulseboard/internal/domain/analytics/entity"
	postentity "github.com/vadim/pulseboard/internal/domain/post/entity"
)

// TimeSeriesCSV renders a dense daily series as CSV with a header row
func TimeSeriesCSV(points []entity.TimeSeriesPoint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "engagement", "reach"}); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	for _, p := range points {
		record := []string{
			p.Date,
			strconv.Itoa(p.Engagement),
			strconv.Itoa(p.Reach),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing csv row for %s: %w", p.Date, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), nil
}

// PostsCSV renders a post collection as CSV, one row per post, engagement
// counters expanded alongside the computed total
func PostsCSV(posts []postentity.Post) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "platform", "caption", "likes", "comments", "shares", "engagement", "engagement_rate", "posted_at"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	for i := range posts {
		p := &posts[i]
		record := []string{
			p.ID,
			string(p.Platform),
			stringOrEmpty(p.Caption),
			intOrEmpty(p.Likes),
			intOrEmpty(p.Comments),
			intOrEmpty(p.Shares),
			strconv.Itoa(p.Engagement()),
			floatOrEmpty(p.EngagementRate),
			p.PostedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing csv row for %s: %w", p.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), nil
}

// unknown counters export as empty cells, not zeros
func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
