package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const contextKeyUserID contextKey = "userID"

// Middleware resolves the session cookie to a user id before any
// handler runs. A missing, malformed, tampered or expired token yields
// the same uniform 401.
func Middleware(tokens *TokenService, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				unauthorized(w)
				return
			}
			userID, ok := tokens.Validate(cookie.Value, time.Now().UTC())
			if !ok {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromCtx(ctx context.Context) uuid.UUID {
	v, _ := ctx.Value(contextKeyUserID).(uuid.UUID)
	return v
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthenticated"}`))
}
