package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parkdeck/internal/service"
)

func TestAuthAllowsValidToken(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)
	token, err := tokens.GenerateToken(7, "attendant")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := AttendantIDFromContext(r.Context())
		if !ok {
			t.Error("attendant id missing from context")
		}
		gotID = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/parking/check-in", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(tokens)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != 7 {
		t.Errorf("attendant id = %d, want 7", gotID)
	}
}

func TestAuthRejectsBadRequests(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)
	other := service.NewTokenService("other-secret", time.Hour)
	foreign, err := other.GenerateToken(7, "attendant")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"malformed token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + foreign},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached")
	})
	guard := Auth(tokens)(next)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/parking/check-in", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			guard.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
