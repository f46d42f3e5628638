package entity

import (
	"time"
)

// Platform represents the social network a post belongs to
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
)

// Post represents a single social-media post with its engagement counters.
// Likes, Comments, Shares and EngagementRate are nullable: the data source
// reports nil when a counter is unknown, which is distinct from zero.
type Post struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Platform       Platform  `json:"platform"`
	Caption        *string   `json:"caption"`
	Likes          *int      `json:"likes"`
	Comments       *int      `json:"comments"`
	Shares         *int      `json:"shares"`
	EngagementRate *float64  `json:"engagement_rate"`
	PostedAt       time.Time `json:"posted_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Engagement returns the post's total interaction count
// (likes + comments + shares), treating unknown counters as 0.
func (p *Post) Engagement() int {
	total := 0
	if p.Likes != nil {
		total += *p.Likes
	}
	if p.Comments != nil {
		total += *p.Comments
	}
	if p.Shares != nil {
		total += *p.Shares
	}
	return total
}

// Validate validates the post before persisting
func (p *Post) Validate() error {
	if p.UserID == "" {
		return ErrEmptyUserID
	}

	switch p.Platform {
	case PlatformInstagram, PlatformTikTok, PlatformTwitter, PlatformLinkedIn:
	default:
		return ErrInvalidPlatform
	}

	if (p.Likes != nil && *p.Likes < 0) ||
		(p.Comments != nil && *p.Comments < 0) ||
		(p.Shares != nil && *p.Shares < 0) {
		return ErrNegativeCounter
	}

	if p.EngagementRate != nil && *p.EngagementRate < 0 {
		return ErrNegativeRate
	}

	if p.PostedAt.IsZero() {
		return ErrMissingPostedAt
	}

	return nil
}
