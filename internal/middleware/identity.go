// internal/middleware/identity.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/adityarw/nasabah-scoring-backend/internal/repository"
)

type contextKey string

const userIDKey contextKey = "userID"

// RequireUser resolves the authenticated user id set by the upstream
// gateway in X-User-ID and verifies it references a real user. Token
// issuance and verification happen before the request reaches us.
func RequireUser(users repository.UserRepositoryInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-User-ID")
			if id == "" {
				writeUnauthorized(w, "Missing user identity")
				return
			}

			user, err := users.GetByID(id)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "Failed to resolve user",
				})
				return
			}
			if user == nil {
				writeUnauthorized(w, "Unknown user")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
	})
}

// UserID returns the authenticated owner for the request, empty when the
// middleware did not run.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
