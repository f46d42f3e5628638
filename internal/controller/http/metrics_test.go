package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/pulseboard/internal/domain/analytics/entity"
	metricentity "github.com/vadim/pulseboard/internal/domain/metric/entity"
	metricservice "github.com/vadim/pulseboard/internal/domain/metric/service"
)

type stubRecorder struct {
	metric *metricentity.DailyMetric
	err    error
	lastIn metricservice.UpsertInput
}

func (s *stubRecorder) UpsertMetric(ctx context.Context, in metricservice.UpsertInput) (*metricentity.DailyMetric, error) {
	s.lastIn = in
	if s.err != nil {
		return nil, s.err
	}
	return s.metric, nil
}

func metricsRouter(series SeriesProvider, recorder MetricRecorder) http.Handler {
	return authedRouter(func(r chi.Router) {
		NewMetricsHandler(series, recorder).RegisterRoutes(r)
	})
}

func TestDailyMetricsDefaultsTo30Days(t *testing.T) {
	series := &stubSeries{points: []entity.TimeSeriesPoint{}}
	router := metricsRouter(series, &stubRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/metrics/daily", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, series.days)
}

func TestDailyMetricsParsesDays(t *testing.T) {
	series := &stubSeries{points: []entity.TimeSeriesPoint{
		{Date: "2024-06-14", Engagement: 1, Reach: 2},
		{Date: "2024-06-15", Engagement: 3, Reach: 4},
	}}
	router := metricsRouter(series, &stubRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/metrics/daily?days=2", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, series.days)

	var points []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 2)
	assert.Equal(t, "2024-06-14", points[0]["date"])
	assert.Equal(t, 1.0, points[0]["engagement"])
	assert.Equal(t, 2.0, points[0]["reach"])
}

func TestDailyMetricsRejectsBadDays(t *testing.T) {
	series := &stubSeries{err: entity.ErrInvalidDayRange}
	router := metricsRouter(series, &stubRecorder{})

	for _, query := range []string{"days=abc", "days=0", "days=999"} {
		req := httptest.NewRequest(http.MethodGet, "/metrics/daily?"+query, nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
		assert.Equal(t, "INVALID_DAYS_PARAMETER", decodeErrorBody(t, rec)["code"], "query %q", query)
	}
}

func TestUpsertDailyMetric(t *testing.T) {
	recorder := &stubRecorder{metric: &metricentity.DailyMetric{
		ID:         "m1",
		UserID:     "user-1",
		Date:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Engagement: 55,
		Reach:      700,
	}}
	router := metricsRouter(&stubSeries{}, recorder)

	body := `{"date":"2024-06-01","engagement":55,"reach":700}`
	req := httptest.NewRequest(http.MethodPut, "/metrics/daily", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", recorder.lastIn.UserID)
	assert.Equal(t, 55, recorder.lastIn.Engagement)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), recorder.lastIn.Date)
}

func TestUpsertDailyMetricRejectsBadDate(t *testing.T) {
	router := metricsRouter(&stubSeries{}, &stubRecorder{})

	body := `{"date":"06/01/2024","engagement":55,"reach":700}`
	req := httptest.NewRequest(http.MethodPut, "/metrics/daily", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE", decodeErrorBody(t, rec)["code"])
}

func TestUpsertDailyMetricValidationError(t *testing.T) {
	router := metricsRouter(&stubSeries{}, &stubRecorder{err: metricentity.ErrNegativeCounter})

	body := `{"date":"2024-06-01","engagement":-5,"reach":0}`
	req := httptest.NewRequest(http.MethodPut, "/metrics/daily", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeErrorBody(t, rec)["code"])
}
