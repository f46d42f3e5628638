package socialgraph

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vadim/pulseboard/internal/domain/post/entity"
)

// Fetcher wraps Client and maps API failures onto post domain errors
type Fetcher struct {
	client *Client
}

// NewFetcher creates a new insights fetcher
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// InsightsInput represents input for fetching fresh engagement counters
type InsightsInput struct {
	Platform entity.Platform
	PostID   string
}

// InsightsOutput represents freshly fetched engagement counters
type InsightsOutput struct {
	Likes    *int
	Comments *int
	Shares   *int
}

// FetchInsights fetches current engagement counters for a post
func (f *Fetcher) FetchInsights(ctx context.Context, in InsightsInput) (*InsightsOutput, error) {
	out, err := f.client.MediaInsights(ctx, MediaInsightsInput{
		Platform: string(in.Platform),
		PostID:   in.PostID,
	})
	if err != nil {
		return nil, mapAPIError(err)
	}

	return &InsightsOutput{
		Likes:    out.Likes,
		Comments: out.Comments,
		Shares:   out.Shares,
	}, nil
}

// mapAPIError translates upstream API errors into domain sentinels so
// handlers can pick the right status code
func mapAPIError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", entity.ErrUpstreamFailure, err)
	}

	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return entity.ErrUpstreamUnauthorized
	case http.StatusTooManyRequests:
		return entity.ErrUpstreamRateLimited
	default:
		return fmt.Errorf("%w: %v", entity.ErrUpstreamFailure, apiErr)
	}
}
