package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"intakebridge/internal/transport/http/api"
)

// Recoverer turns a panic in a handler into a JSON 500 so no request is left
// without a response. The stack goes to the log only.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("handler panic",
				"panic", rec,
				"path", r.URL.Path,
				"requestId", GetRequestID(r.Context()),
				"stack", string(debug.Stack()),
			)
			api.Fail(w, http.StatusInternalServerError, "unhandled", "Unhandled error.", GetRequestID(r.Context()))
		}()
		next.ServeHTTP(w, r)
	})
}
