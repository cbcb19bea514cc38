package shifts

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmployeeRequired = errors.New("employeeNumber is required.")
	ErrInvalidDate      = errors.New("dateFrom and dateTo must be YYYY-MM-DD.")
)

// Row is one canonical shift: wall-clock start and end with the overnight
// roll applied.
type Row struct {
	EmployeeNumber   string          `json:"employeeNumber"`
	Site             string          `json:"site"`
	Role             string          `json:"role"`
	UTCOffset        decimal.Decimal `json:"utcOffset"`
	Hours            decimal.Decimal `json:"hours"`
	HourType         string          `json:"hourType"`
	HourDescription  string          `json:"hourDescription"`
	CellID           string          `json:"cellId"`
	ScheduleDetailID string          `json:"scheduleDetailID"`
	ID               string          `json:"id"`
	StartLocalISO    string          `json:"startLocalISO"`
	EndLocalISO      string          `json:"endLocalISO"`
	Concise          string          `json:"concise"`
	SpeakLine        string          `json:"speakLine"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

type ListRequest struct {
	EmployeeNumber string
	DateFrom       string
	DateTo         string
	PageStart      int
}

type Counts struct {
	Rows     int `json:"rows"`
	Filtered int `json:"filtered"`
}

type Page struct {
	PageStart     int  `json:"pageStart"`
	NextPageStart int  `json:"nextPageStart"`
	HasNext       bool `json:"hasNext"`
	PageCount     int  `json:"pageCount"`
}

type Listing struct {
	Window        string   `json:"window"`
	Counts        Counts   `json:"counts"`
	Page          Page     `json:"page"`
	SpeakablePage []string `json:"speakable_page"`
	EntriesPage   []Row    `json:"entries_page"`
	Speakable     []string `json:"speakable"`
	Entries       []Row    `json:"entries"`
}

// Query identifies the shift an intake refers to.
type Query struct {
	EmployeeNumber string
	CellID         string
	DateHint       string
}
