package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"intakebridge/internal/platform/metrics"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

func TestLoggerMasksBodiesAndRecordsMetrics(t *testing.T) {
	logs := captureLogs(t)
	collector := metrics.New()
	payload := `{"employeeNumber":"12345","ssnLast4":"4321","callerId":"3125550182"}`

	var received string
	handler := RequestID(Logger(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		received = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"email":"ana.lopez@example.com"}`))
	})))

	req := httptest.NewRequest(http.MethodPost, "/auth/employee", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if received != payload {
		t.Fatalf("expected handler to read the full body, got %q", received)
	}

	var entry map[string]any
	if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
		t.Fatalf("expected one json log line, got %q: %v", logs.String(), err)
	}
	if entry["msg"] != "http request" || entry["path"] != "/auth/employee" {
		t.Fatalf("unexpected log entry %+v", entry)
	}
	if status, _ := entry["status"].(float64); status != http.StatusCreated {
		t.Fatalf("expected status 201, got %v", entry["status"])
	}
	if id, _ := entry["requestId"].(string); id == "" {
		t.Fatal("expected request id in log entry")
	}
	reqBody, _ := entry["reqBody"].(string)
	if strings.Contains(reqBody, "4321") || strings.Contains(reqBody, "5550182") {
		t.Fatalf("expected masked request body, got %s", reqBody)
	}
	resBody, _ := entry["resBody"].(string)
	if !strings.Contains(resBody, "a***@example.com") {
		t.Fatalf("expected masked response body, got %s", resBody)
	}
	if strings.Contains(logs.String(), "Bearer secret") {
		t.Fatal("authorization header must not be logged")
	}

	snapshot := collector.Snapshot()
	if snapshot["requestsTotal"] != uint64(1) {
		t.Fatalf("expected one recorded request, got %+v", snapshot)
	}
}

func TestLoggerAcceptsNilCollector(t *testing.T) {
	captureLogs(t)
	handler := Logger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
