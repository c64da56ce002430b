package httpapi

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dmitrijs2005/budgetkeeper/internal/server/httpapi"

type ctxKey int

const (
	ctxStart ctxKey = iota
	ctxDecision
)

func withRequestStart(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxStart, time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestStart(r *http.Request) time.Time {
	if t, ok := r.Context().Value(ctxStart).(time.Time); ok {
		return t
	}
	return time.Now()
}

// withRecover guards handlers against panics and returns a 500 response.
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error(r.Context(), "panic", "panic", v, "stack", string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-content-type-options", "nosniff")
		w.Header().Set("x-frame-options", "DENY")
		w.Header().Set("referrer-policy", "no-referrer")
		w.Header().Set("cache-control", "no-store")
		if r.TLS != nil {
			w.Header().Set("strict-transport-security", "max-age=31536000")
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

// withTracing opens a server span per request. Only the method and the
// status are recorded.
func withTracing(next http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "HTTP "+r.Method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		sr := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(sr, r.WithContext(ctx))

		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.Int("http.response.status_code", sr.status),
		)
		if sr.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(sr.status))
		}
	})
}

// withRequestLog logs one line per request. Credential endpoints are not
// logged at all, and no route logs the session mode.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.isCredentialPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		sr := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(sr, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.status,
			"bytes", sr.bytes,
			"duration_ms", time.Since(requestStart(r)).Milliseconds(),
		}
		switch {
		case sr.status >= 500:
			s.logger.Error(r.Context(), "http request", attrs...)
		default:
			s.logger.Info(r.Context(), "http request", attrs...)
		}
	})
}

func (s *Server) isCredentialPath(p string) bool {
	switch p {
	case "/api/login", "/api/register", "/api/token/refresh", s.gatePath:
		return true
	}
	return false
}
