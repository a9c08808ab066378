package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hamadsh/billsplit/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"
)

// Identity resolves the acting user from the X-User-ID header. Session
// handling and token verification live in the fronting identity provider;
// by the time a request reaches this service the header carries the
// already-authenticated user's UUID.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header == "" {
			response.Unauthorized(w, "X-User-ID header required")
			return
		}

		userID, err := uuid.Parse(header)
		if err != nil {
			response.Unauthorized(w, "Invalid user ID")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
