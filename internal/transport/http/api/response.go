package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the body of every response. Failures carry detail or missing
// to name the cause.
type Envelope struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Data      any      `json:"data,omitempty"`
	Detail    any      `json:"detail,omitempty"`
	Missing   []string `json:"missing,omitempty"`
	Code      string   `json:"code,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, message string, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Code: code, Message: message, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, detail any, missing []string, requestID string) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Code:      code,
		Message:   message,
		Detail:    detail,
		Missing:   missing,
		RequestID: requestID,
	})
}
