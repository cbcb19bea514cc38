package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"intakebridge/internal/platform/config"
)

var journeyNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

type graphQLCall struct {
	Query     string
	Variables map[string]any
}

// upstreamFake serves the WinTeam employee and shift APIs and the Monday
// GraphQL endpoint from one httptest server.
type upstreamFake struct {
	mu            sync.Mutex
	employees     map[string]map[string]any
	groups        []map[string]any
	employeeCalls int
	shiftCalls    int
	creates       []graphQLCall
	changes       []graphQLCall
	finds         []graphQLCall
	existing      map[string]string
	mondayStatus  int
	nextID        int
}

func newUpstreamFake(t *testing.T) (*upstreamFake, *httptest.Server) {
	t.Helper()
	f := &upstreamFake{
		employees: map[string]map[string]any{
			"12345": {
				"employeeNumber":        "12345",
				"employeeId":            9001,
				"firstName":             "Ana",
				"lastName":              "Lopez",
				"emailAddress":          "ana.lopez@example.com",
				"phone1":                "(312) 555-0182",
				"supervisorDescription": "IL Ops Team",
				"partialSSN":            "4321",
				"statusDescription":     "Active",
				"typeDescription":       "Full Time",
			},
		},
		groups: []map[string]any{{
			"employeeNumber":  "12345",
			"jobDescription":  "Riverside Plaza",
			"postDescription": "Front Desk",
			"utCoffset":       -5,
			"shifts": []map[string]any{
				{"startTime": "2026-10-18T22:00:00", "endTime": "2026-10-19T06:00:00", "hours": 8, "hourType": "R", "hourDescription": "Regular", "cellId": "C-200", "scheduleDetailID": "SD-1"},
				{"startTime": "2026-10-20T07:00:00", "endTime": "2026-10-20T15:00:00", "hours": "8.0", "hourType": "R", "hourDescription": "Regular", "cellId": "C-300", "scheduleDetailID": "SD-1"},
			},
		}},
		existing: map[string]string{},
		nextID:   500,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/employees", f.handleEmployees)
	mux.HandleFunc("/shiftDetails", f.handleShifts)
	mux.HandleFunc("/monday", f.handleMonday)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return f, ts
}

func (f *upstreamFake) winTeamAuthorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("tenantId") != "tenant-1" || r.Header.Get("Ocp-Apim-Subscription-Key") != "wt-key" {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func (f *upstreamFake) handleEmployees(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employeeCalls++
	if !f.winTeamAuthorized(w, r) {
		return
	}
	results := []any{}
	if emp, ok := f.employees[r.URL.Query().Get("searchText")]; ok {
		results = append(results, emp)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": []any{map[string]any{"results": results}}})
}

func (f *upstreamFake) handleShifts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shiftCalls++
	if !f.winTeamAuthorized(w, r) {
		return
	}
	q := r.URL.Query()
	from, to := q.Get("fromDate"), q.Get("toDate")
	results := []any{}
	for _, g := range f.groups {
		if g["employeeNumber"] != q.Get("employeeNumber") {
			continue
		}
		kept := map[string]any{}
		for k, v := range g {
			kept[k] = v
		}
		var shifts []map[string]any
		for _, sh := range g["shifts"].([]map[string]any) {
			if day := sh["startTime"].(string)[:10]; day >= from && day <= to {
				shifts = append(shifts, sh)
			}
		}
		kept["shifts"] = shifts
		results = append(results, kept)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": []any{map[string]any{"results": results}}})
}

func (f *upstreamFake) handleMonday(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Header.Get("Authorization") != "md-key" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error_message": "Not Authenticated"})
		return
	}
	if f.mondayStatus != 0 {
		writeJSON(w, f.mondayStatus, map[string]any{"error_message": "Internal server error"})
		return
	}
	var call graphQLCall
	var body struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error_message": err.Error()})
		return
	}
	call = graphQLCall{Query: body.Query, Variables: body.Variables}

	switch {
	case strings.Contains(call.Query, "change_multiple_column_values"):
		f.changes = append(f.changes, call)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"change_multiple_column_values": map[string]any{"id": call.Variables["itemId"], "name": ""},
		}})
	case strings.Contains(call.Query, "create_item"):
		f.creates = append(f.creates, call)
		f.nextID++
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"create_item": map[string]any{"id": strconv.Itoa(f.nextID), "name": call.Variables["itemName"]},
		}})
	case strings.Contains(call.Query, "items_page"):
		f.finds = append(f.finds, call)
		items := []any{}
		if id, ok := f.existing[call.Variables["value"].(string)]; ok {
			items = append(items, map[string]any{"id": id, "name": "existing"})
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"boards": []any{map[string]any{"items_page": map[string]any{"items": items}}},
		}})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"errors": []any{map[string]any{"message": "unknown operation"}}})
	}
}

func (f *upstreamFake) counts() (creates, changes, finds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates), len(f.changes), len(f.finds)
}

// lastColumns decodes the column map of the most recent column update.
func (f *upstreamFake) lastColumns(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.changes) == 0 {
		t.Fatal("expected a column update")
	}
	encoded, ok := f.changes[len(f.changes)-1].Variables["cv"].(string)
	if !ok {
		t.Fatalf("expected cv to be a JSON string, got %T", f.changes[len(f.changes)-1].Variables["cv"])
	}
	var cols map[string]any
	if err := json.Unmarshal([]byte(encoded), &cols); err != nil {
		t.Fatalf("decode cv: %v", err)
	}
	return cols
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func testConfig(upstreamURL string) config.Config {
	return config.Config{
		Addr:               ":0",
		Environment:        "test",
		WinTeamTenantID:    "tenant-1",
		WinTeamAPIKey:      "wt-key",
		WinTeamEmployeeURL: upstreamURL + "/employees",
		WinTeamShiftsURL:   upstreamURL + "/shiftDetails",
		MondayAPIKey:       "md-key",
		MondayAPIURL:       upstreamURL + "/monday",
		MondayBoardID:      "board-1",
		FlowGuardBackend:   config.GuardSQLite,
		FlowGuardTTL:       24 * time.Hour,
		SQLitePath:         ":memory:",
		UpstreamTimeout:    5 * time.Second,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		CORSAllowedOrigins: []string{"*"},
		MetricsEnabled:     true,
		ShutdownTimeout:    time.Second,
	}
}
