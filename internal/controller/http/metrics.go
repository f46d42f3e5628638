package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	analyticsentity "github.com/vadim/pulseboard/internal/domain/analytics/entity"
	"github.com/vadim/pulseboard/internal/domain/analytics/policy"
	metricentity "github.com/vadim/pulseboard/internal/domain/metric/entity"
	metricservice "github.com/vadim/pulseboard/internal/domain/metric/service"
	"github.com/vadim/pulseboard/internal/httpx/response"
)

// SeriesProvider defines the interface for the daily time-series use-case
type SeriesProvider interface {
	DailySeries(ctx context.Context, userID string, days int) ([]analyticsentity.TimeSeriesPoint, error)
}

// MetricRecorder defines the interface for ingesting daily metric rows
type MetricRecorder interface {
	UpsertMetric(ctx context.Context, in metricservice.UpsertInput) (*metricentity.DailyMetric, error)
}

// MetricsHandler handles HTTP requests for daily metrics
type MetricsHandler struct {
	series   SeriesProvider
	recorder MetricRecorder
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(series SeriesProvider, recorder MetricRecorder) *MetricsHandler {
	return &MetricsHandler{series: series, recorder: recorder}
}

// RegisterRoutes registers metrics routes
func (h *MetricsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/metrics/daily", h.Daily())
	r.Put("/metrics/daily", h.Upsert())
}

// Daily handles GET /metrics/daily?days=N
func (h *MetricsHandler) Daily() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		days := policy.DefaultSeriesDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				response.BadRequest(w, "INVALID_DAYS_PARAMETER",
					"Days parameter must be between 1 and 365")
				return
			}
			days = parsed
		}

		points, err := h.series.DailySeries(r.Context(), user.ID, days)
		if err != nil {
			if errors.Is(err, analyticsentity.ErrInvalidDayRange) {
				response.BadRequest(w, "INVALID_DAYS_PARAMETER",
					"Days parameter must be between 1 and 365")
				return
			}
			response.InternalError(w, "Failed to fetch daily metrics.")
			return
		}

		response.OK(w, points)
	}
}

// UpsertMetricRequest represents the request body for recording a day's metrics
type UpsertMetricRequest struct {
	Date       string `json:"date"` // ISO YYYY-MM-DD
	Engagement int    `json:"engagement"`
	Reach      int    `json:"reach"`
}

// Upsert handles PUT /metrics/daily
func (h *MetricsHandler) Upsert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "USER_NOT_FOUND",
				"No authenticated user found. Please log in and try again.")
			return
		}

		var req UpsertMetricRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "INVALID_JSON", "Request body is not valid JSON.")
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.BadRequest(w, "INVALID_DATE", "date must be formatted as YYYY-MM-DD")
			return
		}

		metric, err := h.recorder.UpsertMetric(r.Context(), metricservice.UpsertInput{
			UserID:     user.ID,
			Date:       date,
			Engagement: req.Engagement,
			Reach:      req.Reach,
		})
		if err != nil {
			handleMetricError(w, err)
			return
		}

		response.OK(w, metric)
	}
}

func handleMetricError(w http.ResponseWriter, err error) {
	switch err {
	case metricentity.ErrEmptyUserID, metricentity.ErrMissingDate, metricentity.ErrNegativeCounter:
		response.BadRequest(w, "VALIDATION_ERROR", err.Error())
	default:
		response.InternalError(w, "Failed to record daily metric.")
	}
}
