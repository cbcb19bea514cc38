package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"intakebridge/internal/platform/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
	body   bytes.Buffer
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wrote {
		s.status = code
		s.wrote = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wrote = true
	if room := MaxLogBody - s.body.Len(); room > 0 {
		s.body.Write(b[:min(room, len(b))])
	}
	return s.ResponseWriter.Write(b)
}

type peekedBody struct {
	io.Reader
	io.Closer
}

// Logger writes one structured line per request with masked body previews
// and feeds the metrics collector. A nil collector is allowed.
func Logger(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqPreview := peekBody(r)
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			collector.Record(recorder.status, duration)

			level := slog.LevelInfo
			if recorder.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.Log(context.Background(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", MaskPII(r.URL.RawQuery),
				"headers", LoggableHeaders(r.Header),
				"reqBody", Preview(reqPreview),
				"status", recorder.status,
				"resBody", Preview(recorder.body.String()),
				"durationMs", duration.Milliseconds(),
				"requestId", GetRequestID(r.Context()),
			)
		})
	}
}

// peekBody reads the head of the request body for logging and puts it back
// in front of the unread remainder.
func peekBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	head, _ := io.ReadAll(io.LimitReader(r.Body, MaxLogBody))
	r.Body = peekedBody{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}
	return string(head)
}
