// Package socialgraph is a client for the metrics-aggregation API that
// fronts the individual social platforms. It exposes per-post engagement
// counters (insights) on a Graph-style REST surface.
package socialgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL    = "https://graph.pulseboard.dev"
	defaultAPIVersion = "v2"
	defaultTimeout    = 30 * time.Second
)

// Client is a socialgraph API client
type Client struct {
	baseURL     string
	apiVersion  string
	accessToken string
	httpClient  *http.Client
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithAPIVersion sets the API version
func WithAPIVersion(version string) ClientOption {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithAccessToken sets the service access token sent with every request
func WithAccessToken(token string) ClientOption {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new socialgraph API client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiVersion: defaultAPIVersion,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error from the socialgraph API
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	TraceID string `json:"trace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("socialgraph API error: %s (code: %d)", e.Message, e.Code)
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// MediaInsightsInput represents input for fetching post insights
type MediaInsightsInput struct {
	Platform string
	PostID   string
}

// MediaInsightsOutput represents engagement counters for one post. A nil
// counter means the platform does not expose that metric for this post.
type MediaInsightsOutput struct {
	ID       string `json:"id"`
	Likes    *int   `json:"likes"`
	Comments *int   `json:"comments"`
	Shares   *int   `json:"shares"`
}

// MediaInsights fetches current engagement counters for a post
func (c *Client) MediaInsights(ctx context.Context, in MediaInsightsInput) (*MediaInsightsOutput, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/media/%s/insights", c.baseURL, c.apiVersion, in.Platform, in.PostID)

	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("fields", "likes,comments,shares")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var out MediaInsightsOutput
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// do executes an HTTP request and decodes the response
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	// Check for error response
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
		}
		errResp.Error.Code = orStatus(errResp.Error.Code, resp.StatusCode)
		return &errResp.Error
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func orStatus(code, status int) int {
	if code != 0 {
		return code
	}
	return status
}
