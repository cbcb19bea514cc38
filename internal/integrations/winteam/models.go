package winteam

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Text accepts either a JSON string or number. WinTeam is not consistent about
// identifier types across tenants.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	*t = Text(strings.TrimSpace(string(b)))
	return nil
}

func (t Text) String() string {
	return string(t)
}

type Employee struct {
	EmployeeNumber        Text   `json:"employeeNumber"`
	EmployeeID            Text   `json:"employeeId"`
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	EmailAddress          string `json:"emailAddress"`
	Phone1                Text   `json:"phone1"`
	SupervisorDescription string `json:"supervisorDescription"`
	PartialSSN            Text   `json:"partialSSN"`
	StatusDescription     string `json:"statusDescription"`
	TypeDescription       string `json:"typeDescription"`
	State                 string `json:"state"`
	WorkState             string `json:"workState"`
}

func (e Employee) FullName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{strings.TrimSpace(e.FirstName), strings.TrimSpace(e.LastName)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// HomeState returns the work state reported on the record, if any.
func (e Employee) HomeState() string {
	if s := strings.TrimSpace(e.State); s != "" {
		return s
	}
	return strings.TrimSpace(e.WorkState)
}

// ShiftGroup is one site/post block of the shiftDetails response.
type ShiftGroup struct {
	EmployeeNumber  Text            `json:"employeeNumber"`
	JobDescription  string          `json:"jobDescription"`
	PostDescription string          `json:"postDescription"`
	UTCOffset       decimal.Decimal `json:"utCoffset"`
	Shifts          []Shift         `json:"shifts"`
}

type Shift struct {
	StartTime        string          `json:"startTime"`
	EndTime          string          `json:"endTime"`
	Hours            decimal.Decimal `json:"hours"`
	HourType         Text            `json:"hourType"`
	HourDescription  string          `json:"hourDescription"`
	CellID           Text            `json:"cellId"`
	ScheduleDetailID Text            `json:"scheduleDetailID"`
}

type page[T any] struct {
	Results []T `json:"results"`
}

type envelope[T any] struct {
	Data []page[T] `json:"data"`
}

func (e envelope[T]) firstPage() []T {
	if len(e.Data) == 0 {
		return nil
	}
	return e.Data[0].Results
}
