package shared

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"intakebridge/internal/domain/intake"
	"intakebridge/internal/domain/shifts"
	"intakebridge/internal/integrations/monday"
	"intakebridge/internal/integrations/upstream"
	"intakebridge/internal/integrations/winteam"
	"intakebridge/internal/transport/http/api"
	"intakebridge/internal/transport/http/middleware"
)

// UpstreamDetail is the detail block of a 502 response.
type UpstreamDetail struct {
	Service string `json:"service"`
	Status  int    `json:"status"`
	Body    string `json:"body,omitempty"`
}

// WriteError maps err onto the response taxonomy: 400 and 422 for bad
// input, 401 for failed verification, 404 for missing records, 502 for
// upstream failures and 500 for anything else.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())

	var intakeErr *intake.Error
	switch {
	case errors.Is(err, ErrInvalidBody):
		api.Fail(w, http.StatusBadRequest, "invalid_body", err.Error(), reqID)
	case errors.Is(err, ErrBodyTooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error(), reqID)
	case errors.As(err, &intakeErr):
		status, code := intakeStatus(intakeErr.Kind)
		api.FailWithDetails(w, status, code, intakeErr.Message, nil, intakeErr.Missing, reqID)
	case errors.Is(err, shifts.ErrEmployeeRequired), errors.Is(err, shifts.ErrInvalidDate):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
	default:
		if upErr, ok := upstream.As(err); ok {
			slog.Warn("upstream request failed", "service", upErr.Service, "status", upErr.Status, "requestId", reqID)
			api.FailWithDetails(w, http.StatusBadGateway, "upstream_error",
				fmt.Sprintf("%s request failed (%d).", serviceLabel(upErr.Service), upErr.Status),
				UpstreamDetail{Service: upErr.Service, Status: upErr.Status, Body: upErr.Body},
				nil, reqID)
			return
		}
		slog.Error("request failed", "path", r.URL.Path, "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "unhandled", "Unhandled error.", reqID)
	}
}

func intakeStatus(kind error) (int, string) {
	switch kind {
	case intake.ErrUnprocessable:
		return http.StatusUnprocessableEntity, "unprocessable"
	case intake.ErrNotFound:
		return http.StatusNotFound, "not_found"
	case intake.ErrVerification:
		return http.StatusUnauthorized, "verification_failed"
	}
	return http.StatusBadRequest, "validation_error"
}

func serviceLabel(service string) string {
	switch service {
	case winteam.Service:
		return "WinTeam"
	case monday.Service:
		return "Monday"
	}
	return service
}
