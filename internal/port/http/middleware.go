package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/metrics"
)

const (
	SessionHeader            = "X-Session-ID"
	DefaultSessionCookieName = "cleanout_session"
	maxSessionIDLen          = 128
)

type sessionIDKey struct{}

func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

// Session resolves the caller's tab session from the header, then the cookie.
// A caller without one is issued a fresh ID in both.
func Session(cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultSessionCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					id = c.Value
				}
			}
			if id == "" || len(id) > maxSessionIDLen {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(SessionHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionIDKey{}, id)))
		})
	}
}

// RequestLogger logs basic request details and latency, and records the
// latency per route pattern when a metrics manager is given.
func RequestLogger(log logger.Logger, mm *metrics.MetricsManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			if mm != nil {
				mm.HTTPRequestLatency.WithLabelValues(route).Observe(elapsed.Seconds())
			}

			log.Infof("request method=%s path=%s status=%d duration=%s",
				r.Method,
				r.URL.Path,
				rec.status,
				elapsed,
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent events working behind the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
