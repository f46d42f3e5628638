package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/pulseboard/internal/domain/analytics/entity"
	"github.com/vadim/pulseboard/internal/httpx/response"
)

// AnalyticsPolicy defines the interface for analytics use-cases
// Interface is defined by consumer (handler), not provider (policy)
type AnalyticsPolicy interface {
	Summary(ctx context.Context, userID string) (*entity.AnalyticsSummary, error)
}

// AnalyticsHandler handles HTTP requests for analytics summaries
type AnalyticsHandler struct {
	policy AnalyticsPolicy
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(p AnalyticsPolicy) *AnalyticsHandler {
	return &AnalyticsHandler{policy: p}
}

// RegisterRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics/summary", h.Summary())
}

// Summary handles GET /analytics/summary
func (h *AnalyticsHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		summary, err := h.policy.Summary(r.Context(), user.ID)
		if err != nil {
			response.InternalError(w, "Failed to compute analytics summary.")
			return
		}

		response.OK(w, summary)
	}
}
