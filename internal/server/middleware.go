package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tailscale.com/client/tailscale/apitype"
)

type contextKey int

const (
	userIDKey contextKey = iota
	userInfoKey
)

// UserInfo is the resolved identity of the caller.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// WhoIsClient resolves a remote address to a Tailscale identity. Satisfied
// by the tsnet LocalClient.
type WhoIsClient interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// UserSource maps an identity-provider login to a stable user id.
type UserSource interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

// TailscaleIdentity returns middleware that resolves the caller through the
// tailnet and stores the mapped user id and profile in the request context.
// Identity verification itself is the tailnet's problem; we only consume the
// result.
func TailscaleIdentity(lc WhoIsClient, users UserSource, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, err := lc.WhoIs(r.Context(), r.RemoteAddr)
			if err != nil || who.UserProfile == nil {
				log.Warn("whois failed", "remote", r.RemoteAddr, "error", err)
				http.Error(w, `{"error":"identity unavailable"}`, http.StatusUnauthorized)
				return
			}

			info := UserInfo{
				Login:       who.UserProfile.LoginName,
				DisplayName: who.UserProfile.DisplayName,
			}
			uid, err := users.GetOrCreateUser(r.Context(), info.Login, info.DisplayName)
			if err != nil {
				log.Error("user lookup failed", "login", info.Login, "error", err)
				http.Error(w, `{"error":"identity unavailable"}`, http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, uid)
			ctx = context.WithValue(ctx, userInfoKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DevIdentity returns middleware that pins every request to user 1,
// enabling local development without a tailnet.
func DevIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), userIDKey, 1)
		ctx = context.WithValue(ctx, userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns the user id set by identity middleware,
// defaulting to 1.
func userIDFromContext(r *http.Request) int {
	if id, ok := r.Context().Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// userInfoFromContext returns the identity set by identity middleware,
// defaulting to the local dev user.
func userInfoFromContext(r *http.Request) UserInfo {
	if info, ok := r.Context().Value(userInfoKey).(UserInfo); ok {
		return info
	}
	return UserInfo{Login: "local", DisplayName: "Local Dev User"}
}

// mustUserID extracts the user id or writes a 401.
func mustUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	if id, ok := r.Context().Value(userIDKey).(int); ok {
		return id, true
	}
	http.Error(w, `{"error":"no identity"}`, http.StatusUnauthorized)
	return 0, false
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
