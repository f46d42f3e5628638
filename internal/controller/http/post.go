package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/pulseboard/internal/domain/post/entity"
	"github.com/vadim/pulseboard/internal/domain/post/service"
	"github.com/vadim/pulseboard/internal/httpx/response"
)

// PostPolicy defines the interface for post operations
// Interface is defined by consumer (handler), not provider (policy)
type PostPolicy interface {
	CreatePost(ctx context.Context, in service.CreateInput) (*entity.Post, error)
	GetPost(ctx context.Context, userID, id string) (*entity.Post, error)
	DeletePost(ctx context.Context, userID, id string) error
	ListPosts(ctx context.Context, in service.ListInput) (*service.ListOutput, error)
	RefreshEngagement(ctx context.Context, userID, id string) (*entity.Post, error)
}

// PostHandler handles HTTP requests for posts
type PostHandler struct {
	policy PostPolicy
}

// NewPostHandler creates a new post handler
func NewPostHandler(p PostPolicy) *PostHandler {
	return &PostHandler{policy: p}
}

// RegisterRoutes registers post routes
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Route("/posts", func(r chi.Router) {
		r.Post("/", h.Create())
		r.Get("/", h.List())
		r.Get("/{id}", h.Get())
		r.Delete("/{id}", h.Delete())
		r.Post("/{id}/refresh", h.Refresh())
	})
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Platform       string   `json:"platform"`
	Caption        *string  `json:"caption,omitempty"`
	Likes          *int     `json:"likes,omitempty"`
	Comments       *int     `json:"comments,omitempty"`
	Shares         *int     `json:"shares,omitempty"`
	EngagementRate *float64 `json:"engagement_rate,omitempty"`
	PostedAt       string   `json:"posted_at"` // RFC3339 format
}

// Create handles POST /posts
func (h *PostHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "INVALID_JSON", "Request body is not valid JSON.")
			return
		}

		postedAt, err := time.Parse(time.RFC3339, req.PostedAt)
		if err != nil {
			response.BadRequest(w, "INVALID_POSTED_AT", "posted_at must be RFC3339 formatted")
			return
		}

		post, err := h.policy.CreatePost(r.Context(), service.CreateInput{
			UserID:         user.ID,
			Platform:       entity.Platform(req.Platform),
			Caption:        req.Caption,
			Likes:          req.Likes,
			Comments:       req.Comments,
			Shares:         req.Shares,
			EngagementRate: req.EngagementRate,
			PostedAt:       postedAt,
		})
		if err != nil {
			handlePostError(w, err)
			return
		}

		response.Created(w, post)
	}
}

// List handles GET /posts
func (h *PostHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		in := service.ListInput{UserID: user.ID}

		// "all" means no filter, mirroring the dashboard's platform selector
		if platform := r.URL.Query().Get("platform"); platform != "" && platform != "all" {
			p := entity.Platform(platform)
			in.Platform = &p
		}

		if raw := r.URL.Query().Get("limit"); raw != "" {
			if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
				in.Limit = limit
			}
		}
		if raw := r.URL.Query().Get("offset"); raw != "" {
			if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
				in.Offset = offset
			}
		}

		out, err := h.policy.ListPosts(r.Context(), in)
		if err != nil {
			response.InternalError(w, "Failed to fetch posts.")
			return
		}

		posts := out.Posts
		if posts == nil {
			posts = []entity.Post{}
		}

		response.OK(w, map[string]interface{}{
			"posts": posts,
			"total": out.Total,
		})
	}
}

// Get handles GET /posts/{id}
func (h *PostHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		post, err := h.policy.GetPost(r.Context(), user.ID, chi.URLParam(r, "id"))
		if err != nil {
			handlePostError(w, err)
			return
		}

		response.OK(w, post)
	}
}

// Delete handles DELETE /posts/{id}
func (h *PostHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		if err := h.policy.DeletePost(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
			handlePostError(w, err)
			return
		}

		response.NoContent(w)
	}
}

// Refresh handles POST /posts/{id}/refresh
func (h *PostHandler) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		post, err := h.policy.RefreshEngagement(r.Context(), user.ID, chi.URLParam(r, "id"))
		if err != nil {
			handlePostError(w, err)
			return
		}

		response.OK(w, post)
	}
}

func handlePostError(w http.ResponseWriter, err error) {
	switch err {
	case entity.ErrPostNotFound:
		response.NotFound(w, "POST_NOT_FOUND", err.Error())
	case entity.ErrNotPostOwner:
		response.Forbidden(w, "NOT_POST_OWNER", err.Error())
	case entity.ErrEmptyUserID, entity.ErrInvalidPlatform, entity.ErrNegativeCounter,
		entity.ErrNegativeRate, entity.ErrMissingPostedAt:
		response.BadRequest(w, "VALIDATION_ERROR", err.Error())
	case entity.ErrUpstreamUnauthorized:
		response.Unauthorized(w, "UPSTREAM_UNAUTHORIZED", err.Error())
	case entity.ErrUpstreamRateLimited:
		response.TooManyRequests(w, "UPSTREAM_RATE_LIMITED", err.Error())
	default:
		response.InternalError(w, "An unexpected error occurred.")
	}
}
