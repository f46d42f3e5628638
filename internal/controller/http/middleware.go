package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vadim/pulseboard/internal/httpx/response"
	"github.com/vadim/pulseboard/internal/httpx/upstream/authgate"
)

// authCookieName is the session cookie set by the dashboard frontend
const authCookieName = "pb-auth-token"

// TokenValidator defines the interface for resolving a bearer token to a
// user. Defined by the consumer (this package), implemented by the
// authgate client.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*authgate.User, error)
}

type contextKey string

const userContextKey contextKey = "auth.user"

// UserFromContext returns the authenticated user injected by RequireAuth
func UserFromContext(ctx context.Context) (*authgate.User, bool) {
	user, ok := ctx.Value(userContextKey).(*authgate.User)
	return user, ok
}

// RequireAuth validates the request's token and injects the resolved user
// into the request context. Every data endpoint sits behind it.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				response.Unauthorized(w, "AUTH_TOKEN_MISSING",
					"Authentication token not found. Please log in to access this resource.")
				return
			}

			user, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, authgate.ErrInvalidToken):
					response.Unauthorized(w, "AUTH_VALIDATION_ERROR",
						"Invalid authentication token. Token is empty or malformed.")
				case errors.Is(err, authgate.ErrUserNotFound):
					response.Unauthorized(w, "USER_NOT_FOUND",
						"No authenticated user found. Please log in and try again.")
				default:
					response.Unauthorized(w, "AUTH_VALIDATION_ERROR",
						"Failed to validate user session.")
				}
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the bearer token from the Authorization header, falling
// back to the session cookie the frontend sets
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if cookie, err := r.Cookie(authCookieName); err == nil {
		return cookie.Value
	}

	return ""
}
