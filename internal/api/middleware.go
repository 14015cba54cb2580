package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/shareit/internal/auth"
	"github.com/erazemk/shareit/internal/storage"
)

type contextKey string

const (
	callerKey    contextKey = "caller"
	claimsKey    contextKey = "claims"
	requestIDKey contextKey = "request_id"
)

// UserHeader carries the caller's user id when header identity is trusted.
const UserHeader = "X-Sharer-User-Id"

// Identify resolves the calling user from a bearer token or, when trustHeader
// is set, from UserHeader. Requests without a valid identity get 401.
func Identify(secret string, st storage.Store, trustHeader bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if header := r.Header.Get("Authorization"); header != "" {
				tokenStr, ok := strings.CutPrefix(header, "Bearer ")
				if !ok {
					jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
					return
				}
				claims, err := auth.ValidateToken(secret, tokenStr)
				if err != nil {
					jsonError(w, http.StatusUnauthorized, "invalid token")
					return
				}
				revoked, err := st.IsTokenRevoked(ctx, claims.ID)
				if err != nil {
					writeError(w, r, err)
					return
				}
				if revoked {
					jsonError(w, http.StatusUnauthorized, "token has been revoked")
					return
				}
				ctx = context.WithValue(ctx, claimsKey, claims)
				ctx = context.WithValue(ctx, callerKey, claims.UserID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if trustHeader {
				if v := r.Header.Get(UserHeader); v != "" {
					id, err := strconv.ParseInt(v, 10, 64)
					if err != nil || id <= 0 {
						jsonError(w, http.StatusUnauthorized, "invalid "+UserHeader+" header")
						return
					}
					ctx = context.WithValue(ctx, callerKey, id)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			jsonError(w, http.StatusUnauthorized, "not authenticated")
		})
	}
}

// callerID returns the identified user. Only valid behind Identify.
func callerID(ctx context.Context) int64 {
	id, _ := ctx.Value(callerKey).(int64)
	return id
}

// GetClaims retrieves the JWT claims from the context, nil for header identity.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestObserver receives one call per finished request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, took time.Duration)
}

// Observe tags each request with an id, writes an access log line and
// reports the matched route pattern to obs, which may be nil.
func Observe(obs RequestObserver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-Id")
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))
		next.ServeHTTP(rec, r)

		took := time.Since(start)
		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", took.Round(time.Millisecond),
			"request_id", id,
		)
		if obs != nil {
			obs.ObserveRequest(r.Method, r.Pattern, rec.status, took)
		}
	})
}
