package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"shareit/internal/metrics"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	userIDHeader    = "X-Sharer-User-Id"
)

type ctxKey int

const requestIDKey ctxKey = iota

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// observe tags the request with an id, applies the per-client limit
// and records the access log line and HTTP metrics.
func (s *HTTPServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if s.clientLimiter.allow(r) {
			next.ServeHTTP(recorder, r)
		} else {
			metrics.IncRateLimited("client")
			writeError(recorder, http.StatusTooManyRequests, "rate limit exceeded")
		}

		dur := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(route, recorder.status, dur)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID int64)

// withUser resolves the acting user from the X-Sharer-User-Id header
// and enforces the per-user request window.
func (s *HTTPServer) withUser(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(userIDHeader))
		if raw == "" {
			writeError(w, http.StatusBadRequest, "missing "+userIDHeader+" header")
			return
		}
		userID, err := parseID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+userIDHeader+" header")
			return
		}

		if !s.allowUser(r.Context(), userID) {
			metrics.IncRateLimited("user")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		h(w, r, userID)
	}
}

func (s *HTTPServer) allowUser(ctx context.Context, userID int64) bool {
	limit := s.cfg.UserLimit
	if s.userLimiter == nil || limit.Requests <= 0 {
		return true
	}

	allowed, err := s.userLimiter.CheckRateLimit(ctx, userID, limit.Requests, limit.Window)
	if err != nil {
		// Both limiter backends failed; let the request through.
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("user rate limit check failed")
		return true
	}
	return allowed
}
