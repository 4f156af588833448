package middleware

import (
	"context"
	"net/http"
	"strings"

	"parkdeck/internal/service"
)

type contextKey string

const attendantIDKey contextKey = "attendantID"

// Auth validates Bearer tokens and injects the attendant id into the
// request context.
func Auth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), attendantIDKey, claims.AttendantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AttendantIDFromContext retrieves the attendant id set by Auth.
func AttendantIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(attendantIDKey).(int64)
	return id, ok
}
