package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// okHandler records whether the wrapped handler ran and which userID the
// middleware put in the context.
func okHandler(t *testing.T, gotUserID *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFromContext(r.Context())
		*gotUserID = id
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate("user-42")

	var gotUserID string
	h := RequireAuth(ts)(okHandler(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "user-42" {
		t.Errorf("userID in context = %q, want %q", gotUserID, "user-42")
	}
}

func TestRequireAuth_XAuthTokenFallback(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate("user-42")

	var gotUserID string
	h := RequireAuth(ts)(okHandler(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("x-auth-token", token)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "user-42" {
		t.Errorf("userID in context = %q, want %q", gotUserID, "user-42")
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	ts := newTestTokenService(t)

	var gotUserID string
	h := RequireAuth(ts)(okHandler(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if gotUserID != "" {
		t.Error("handler should not run without a valid token")
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.GenerateWithDuration("user-42", -time.Minute)

	var gotUserID string
	h := RequireAuth(ts)(okHandler(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_MalformedAuthorizationHeader(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate("user-42")

	var gotUserID string
	h := RequireAuth(ts)(okHandler(t, &gotUserID))

	// No "Bearer" scheme and no fallback header.
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
