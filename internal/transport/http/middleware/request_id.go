package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"intakebridge/internal/requestctx"
)

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestctx.Header)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestctx.Header, reqID)
		ctx := requestctx.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
