package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	const cookieName = "auth_token"
	svc := NewTokenService("test-secret", 30*time.Minute)
	userID := uuid.New()

	var gotUserID uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(svc, cookieName)(next)

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
	}{
		{"missing cookie", nil, http.StatusUnauthorized},
		{"garbage token", &http.Cookie{Name: cookieName, Value: "nonsense"}, http.StatusUnauthorized},
		{"expired token", &http.Cookie{
			Name:  cookieName,
			Value: svc.Issue(userID, time.Now().UTC().Add(-24*time.Hour)),
		}, http.StatusUnauthorized},
		{"valid token", &http.Cookie{
			Name:  cookieName,
			Value: svc.Issue(userID, time.Now().UTC()),
		}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/v1/user/user", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, gotUserID)
			} else {
				assert.Equal(t, uuid.Nil, gotUserID)
				assert.JSONEq(t, `{"error":"unauthenticated"}`, rec.Body.String())
			}
		})
	}
}
