package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Optus-development-team/optsms-backend/internal/service"
)

type contextKey int

const (
	contextKeySubject contextKey = iota
)

// Auth verifies the bearer token and passes the caller identity to the
// request context.
func Auth(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			payload, err := ts.VerifyToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeySubject, payload.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
