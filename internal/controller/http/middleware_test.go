package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/pulseboard/internal/httpx/upstream/authgate"
)

type stubValidator struct {
	user *authgate.User
	err  error
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (*authgate.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(user.ID))
	})
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireAuthMissingToken(t *testing.T) {
	handler := RequireAuth(&stubValidator{})(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_TOKEN_MISSING", decodeErrorBody(t, rec)["code"])
}

func TestRequireAuthInvalidToken(t *testing.T) {
	handler := RequireAuth(&stubValidator{err: authgate.ErrInvalidToken})(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_VALIDATION_ERROR", decodeErrorBody(t, rec)["code"])
}

func TestRequireAuthUnknownUser(t *testing.T) {
	handler := RequireAuth(&stubValidator{err: authgate.ErrUserNotFound})(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer orphan-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", decodeErrorBody(t, rec)["code"])
}

func TestRequireAuthBearerHeader(t *testing.T) {
	validator := &stubValidator{user: &authgate.User{ID: "user-42"}}
	handler := RequireAuth(validator)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())
}

func TestRequireAuthCookieFallback(t *testing.T) {
	validator := &stubValidator{user: &authgate.User{ID: "user-7"}}
	handler := RequireAuth(validator)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-7", rec.Body.String())
}
