package httpx

import (
	"net/http"
	"time"

	"intakebridge/internal/requestctx"
)

const DefaultTimeout = 30 * time.Second

// NewClient returns the client shared by the upstream gateways. A zero or
// negative timeout falls back to DefaultTimeout. Outbound requests carry the
// inbound request id.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: requestIDTransport{next: http.DefaultTransport},
	}
}

type requestIDTransport struct {
	next http.RoundTripper
}

func (t requestIDTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	id := requestctx.GetRequestID(r.Context())
	if id == "" || r.Header.Get(requestctx.Header) != "" {
		return t.next.RoundTrip(r)
	}
	// RoundTrippers must not modify the caller's request.
	out := r.Clone(r.Context())
	out.Header.Set(requestctx.Header, id)
	return t.next.RoundTrip(out)
}
