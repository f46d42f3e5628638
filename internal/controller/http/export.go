package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	analyticsentity "github.com/vadim/pulseboard/internal/domain/analytics/entity"
	postentity "github.com/vadim/pulseboard/internal/domain/post/entity"
	"github.com/vadim/pulseboard/internal/domain/post/service"
	"github.com/vadim/pulseboard/internal/exports"
	"github.com/vadim/pulseboard/internal/httpx/response"
	"github.com/vadim/pulseboard/internal/storage"
)

// ExportUploader defines the interface for storing generated export files
type ExportUploader interface {
	PutExport(ctx context.Context, in storage.PutExportInput) (*storage.PutExportOutput, error)
}

// ExportHandler handles HTTP requests for CSV exports
type ExportHandler struct {
	series   SeriesProvider
	posts    PostPolicy
	uploader ExportUploader
}

// NewExportHandler creates a new export handler
func NewExportHandler(series SeriesProvider, posts PostPolicy, uploader ExportUploader) *ExportHandler {
	return &ExportHandler{series: series, posts: posts, uploader: uploader}
}

// RegisterRoutes registers export routes
func (h *ExportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/exports", func(r chi.Router) {
		r.Post("/timeseries", h.TimeSeries())
		r.Post("/posts", h.Posts())
	})
}

// ExportResponse describes a stored export file
type ExportResponse struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Rows       int       `json:"rows"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TimeSeriesExportRequest represents the request body for a series export
type TimeSeriesExportRequest struct {
	Days int `json:"days"`
}

// TimeSeries handles POST /exports/timeseries
func (h *ExportHandler) TimeSeries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		req := TimeSeriesExportRequest{Days: 30}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				response.BadRequest(w, "INVALID_JSON", "Request body is not valid JSON.")
				return
			}
		}

		points, err := h.series.DailySeries(r.Context(), user.ID, req.Days)
		if err != nil {
			if errors.Is(err, analyticsentity.ErrInvalidDayRange) {
				response.BadRequest(w, "INVALID_DAYS_PARAMETER",
					"Days parameter must be between 1 and 365")
				return
			}
			response.InternalError(w, "Failed to fetch daily metrics.")
			return
		}

		content, err := exports.TimeSeriesCSV(points)
		if err != nil {
			response.InternalError(w, "Failed to render export.")
			return
		}

		out, err := h.uploader.PutExport(r.Context(), storage.PutExportInput{
			UserID:  user.ID,
			Format:  storage.FormatCSV,
			Content: content,
		})
		if err != nil {
			response.InternalError(w, "Failed to store export.")
			return
		}

		response.Created(w, ExportResponse{
			Key:        out.Key,
			URL:        out.URL,
			Rows:       len(points),
			Size:       out.Size,
			UploadedAt: out.UploadedAt,
		})
	}
}

// PostsExportRequest represents the request body for a posts export
type PostsExportRequest struct {
	Platform string `json:"platform,omitempty"`
}

// Posts handles POST /exports/posts
func (h *ExportHandler) Posts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		var req PostsExportRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				response.BadRequest(w, "INVALID_JSON", "Request body is not valid JSON.")
				return
			}
		}

		in := service.ListInput{UserID: user.ID}
		if req.Platform != "" && req.Platform != "all" {
			p := postentity.Platform(req.Platform)
			in.Platform = &p
		}

		out, err := h.posts.ListPosts(r.Context(), in)
		if err != nil {
			response.InternalError(w, "Failed to fetch posts.")
			return
		}

		content, err := exports.PostsCSV(out.Posts)
		if err != nil {
			response.InternalError(w, "Failed to render export.")
			return
		}

		stored, err := h.uploader.PutExport(r.Context(), storage.PutExportInput{
			UserID:  user.ID,
			Format:  storage.FormatCSV,
			Content: content,
		})
		if err != nil {
			response.InternalError(w, "Failed to store export.")
			return
		}

		response.Created(w, ExportResponse{
			Key:        stored.Key,
			URL:        stored.URL,
			Rows:       len(out.Posts),
			Size:       stored.Size,
			UploadedAt: stored.UploadedAt,
		})
	}
}
