package middleware

import (
	"log/slog"
	"net/http"

	"intakebridge/internal/transport/http/api"
)

const bodyTooLargeMessage = "Request body too large."

// BodyLimit caps request bodies on writes. A declared Content-Length over the
// cap is answered with a JSON 413 before the handler runs; chunked bodies are
// wrapped so reads past the cap fail with *http.MaxBytesError, which the
// handlers' decoder maps onto the same 413.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes <= 0 || !carriesBody(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				slog.Warn("request body over limit",
					"path", r.URL.Path,
					"contentLength", r.ContentLength,
					"limit", maxBytes,
					"requestId", GetRequestID(r.Context()),
				)
				api.Fail(w, http.StatusRequestEntityTooLarge, "body_too_large", bodyTooLargeMessage, GetRequestID(r.Context()))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func carriesBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}
