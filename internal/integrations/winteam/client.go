// Package winteam is a thin gateway over the WinTeam employee and shift
// detail APIs.
package winteam

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"intakebridge/internal/integrations/upstream"
)

const (
	Service = "winteam"

	DefaultEmployeeURL = "http://apim.myteamsoftware.com/wtnextgen/employees/v1/api/employees"
	DefaultShiftsURL   = "http://apim.myteamsoftware.com/wtnextgen/schedules/v1/api/shiftDetails"
)

type Config struct {
	EmployeeURL string
	ShiftsURL   string
	TenantID    string
	APIKey      string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.EmployeeURL == "" {
		cfg.EmployeeURL = DefaultEmployeeURL
	}
	if cfg.ShiftsURL == "" {
		cfg.ShiftsURL = DefaultShiftsURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient}
}

func (c *Client) Configured() bool {
	return c.cfg.TenantID != "" && c.cfg.APIKey != ""
}

// Employee looks up an employee by number with an exact match. A nil employee
// with a nil error means WinTeam returned no record.
func (c *Client) Employee(ctx context.Context, employeeNumber string) (*Employee, error) {
	q := url.Values{}
	q.Set("searchFieldName", "employeeNumber")
	q.Set("searchText", strings.TrimSpace(employeeNumber))
	q.Set("exactMatch", "true")

	var env envelope[Employee]
	if err := c.getJSON(ctx, c.cfg.EmployeeURL, q, &env); err != nil {
		return nil, err
	}
	results := env.firstPage()
	if len(results) == 0 {
		return nil, nil
	}
	emp := results[0]
	return &emp, nil
}

// Shifts returns every site/post group for the employee between from and to
// (both sent as YYYY-MM-DD).
func (c *Client) Shifts(ctx context.Context, employeeNumber string, from, to time.Time) ([]ShiftGroup, error) {
	q := url.Values{}
	q.Set("employeeNumber", strings.TrimSpace(employeeNumber))
	q.Set("fromDate", from.UTC().Format("2006-01-02"))
	q.Set("toDate", to.UTC().Format("2006-01-02"))

	var env envelope[ShiftGroup]
	if err := c.getJSON(ctx, c.cfg.ShiftsURL, q, &env); err != nil {
		return nil, err
	}
	return env.firstPage(), nil
}

func (c *Client) getJSON(ctx context.Context, base string, q url.Values, out any) error {
	if !c.Configured() {
		return upstream.NewError(Service, http.StatusInternalServerError, "Missing WINTEAM_TENANT_ID or WINTEAM_API_KEY.")
	}

	u, err := url.Parse(base)
	if err != nil {
		return upstream.NewError(Service, http.StatusInternalServerError, err.Error())
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return upstream.NewError(Service, http.StatusInternalServerError, err.Error())
	}
	req.Header.Set("tenantId", c.cfg.TenantID)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return upstream.NewError(Service, http.StatusBadGateway, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return upstream.NewError(Service, http.StatusBadGateway, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upstream.NewError(Service, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return upstream.NewError(Service, http.StatusBadGateway, "invalid JSON from WinTeam: "+err.Error())
	}
	return nil
}
