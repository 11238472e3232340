package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

// TestDevIdentity verifies that the dev identity middleware sets user_id=1
// for all requests, enabling local development without Tailscale.
func TestDevIdentity(t *testing.T) {
	var gotUserID int
	var gotInfo UserInfo
	handler := DevIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = userIDFromContext(r)
		gotInfo = userInfoFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 1 {
		t.Errorf("userID = %d, want 1", gotUserID)
	}
	if gotInfo.Login != "local" {
		t.Errorf("login = %q, want %q", gotInfo.Login, "local")
	}
}

// TestUserIDFromContext verifies the context accessors: the identity value
// when middleware has set one, the local fallback otherwise.
func TestUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := userIDFromContext(req); id != 1 {
		t.Errorf("userIDFromContext without context value = %d, want 1", id)
	}

	req = req.WithContext(context.WithValue(req.Context(), userIDKey, 42))
	if id := userIDFromContext(req); id != 42 {
		t.Errorf("userIDFromContext = %d, want 42", id)
	}
}

// TestUserInfoFromContext verifies UserInfo extraction and its dev fallback.
func TestUserInfoFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if info := userInfoFromContext(req); info.DisplayName != "Local Dev User" {
		t.Errorf("displayName = %q, want %q", info.DisplayName, "Local Dev User")
	}

	want := UserInfo{Login: "alice@example.com", DisplayName: "Alice"}
	req = req.WithContext(context.WithValue(req.Context(), userInfoKey, want))
	if info := userInfoFromContext(req); info != want {
		t.Errorf("userInfoFromContext = %+v, want %+v", info, want)
	}
}

type fakeWhoIs struct {
	resp *apitype.WhoIsResponse
	err  error
}

func (f fakeWhoIs) WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error) {
	return f.resp, f.err
}

type fakeUserSource struct {
	gotLogin string
	id       int
}

func (f *fakeUserSource) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	f.gotLogin = login
	return f.id, nil
}

// TestTailscaleIdentity verifies that a resolved tailnet identity is mapped
// through the user source and lands in the request context.
func TestTailscaleIdentity(t *testing.T) {
	lc := fakeWhoIs{resp: &apitype.WhoIsResponse{
		UserProfile: &tailcfg.UserProfile{LoginName: "bob@example.com", DisplayName: "Bob"},
	}}
	users := &fakeUserSource{id: 7}

	var gotUserID int
	handler := TailscaleIdentity(lc, users, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = userIDFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 7 {
		t.Errorf("userID = %d, want 7", gotUserID)
	}
	if users.gotLogin != "bob@example.com" {
		t.Errorf("login passed to user source = %q, want %q", users.gotLogin, "bob@example.com")
	}
}

// TestTailscaleIdentityWhoIsFailure verifies that an unresolvable caller is
// rejected with 401 before reaching the handler.
func TestTailscaleIdentityWhoIsFailure(t *testing.T) {
	lc := fakeWhoIs{err: errors.New("no such peer")}
	handler := TailscaleIdentity(lc, &fakeUserSource{}, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called when WhoIs fails")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestRequestLogging verifies that the logging middleware calls the next handler and records status.
func TestRequestLogging(t *testing.T) {
	handler := RequestLogging(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestCORSHeaders verifies that CORS headers are set on responses.
func TestCORSHeaders(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin = %q, want *", got)
	}
}

// TestCORSPreflight verifies that OPTIONS requests get 204 with CORS headers.
func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for OPTIONS")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
