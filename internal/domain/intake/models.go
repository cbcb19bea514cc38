package intake

import (
	"encoding/json"
	"strings"

	"intakebridge/internal/domain/classify"
	"intakebridge/internal/domain/shifts"
	"intakebridge/internal/integrations/monday"
)

const (
	ModeAuto   = "auto"
	ModeManual = "manual"

	defaultCallOffReason = "calling off sick"
	unknownCaller        = "Unknown Caller"
)

type AuthRequest struct {
	EmployeeNumber string `json:"employeeNumber"`
	SSNLast4       string `json:"ssnLast4"`
}

type EmployeeProfile struct {
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	FullName              string `json:"ofcFullname"`
	EmailAddress          string `json:"emailAddress"`
	Phone1                string `json:"phone1"`
	SupervisorDescription string `json:"supervisorDescription"`
	EmployeeNumber        string `json:"employeeNumber"`
	EmployeeID            string `json:"employeeId"`
	StatusDescription     string `json:"statusDescription"`
	TypeDescription       string `json:"typeDescription"`
}

// BoardWriteRequest is the generic board write. Aliases are folded by
// Normalize; the decoded value itself is never modified.
type BoardWriteRequest struct {
	BoardID        string `json:"boardId"`
	GroupID        string `json:"groupId"`
	ItemName       string `json:"itemName"`
	Name           string `json:"name"`
	Mode           string `json:"mode"`
	DedupeKey      string `json:"dedupeKey"`
	EmployeeNumber string `json:"employeeNumber"`
	OfcEmployeeNo  string `json:"ofcEmployeeNumber"`
	FullName       string `json:"fullName"`

	EngagementID string `json:"engagementId"`
	ZoomEngID    string `json:"zoomEngId"`

	Fields
	ColumnValues map[string]json.RawMessage `json:"columnValues"`
}

// Fields are the friendly board fields shared by every intake type.
type Fields struct {
	Site                  string          `json:"site"`
	Reason                string          `json:"reason"`
	TimeInOut             string          `json:"timeInOut"`
	StartTime             string          `json:"startTime"`
	EndTime               string          `json:"endTime"`
	DeptEmail             string          `json:"deptEmail"`
	ZoomGUID              string          `json:"zoomGuid"`
	Shift                 string          `json:"shift"`
	ItemIDEcho            string          `json:"itemIdEcho"`
	Email                 string          `json:"email"`
	Phone                 string          `json:"phone"`
	CallerID              string          `json:"callerId"`
	DateTime              json.RawMessage `json:"dateTime"`
	Division              string          `json:"division"`
	Department            string          `json:"department"`
	SupervisorDescription string          `json:"supervisorDescription"`
	WorkState             string          `json:"workState"`
	OfcWorkstate          string          `json:"ofcWorkstate"`
	State                 string          `json:"state"`
}

// Normalize returns a trimmed copy with aliases folded: itemName|name,
// employeeNumber|ofcEmployeeNumber, engagementId|zoomEngId|zoomGuid and
// ofcWorkstate|workState|state.
func (r BoardWriteRequest) Normalize() BoardWriteRequest {
	out := r
	out.BoardID = strings.TrimSpace(r.BoardID)
	out.GroupID = strings.TrimSpace(r.GroupID)
	out.ItemName = firstNonEmpty(r.ItemName, r.Name)
	out.Mode = strings.ToLower(strings.TrimSpace(r.Mode))
	out.DedupeKey = strings.TrimSpace(r.DedupeKey)
	out.EmployeeNumber = firstNonEmpty(r.EmployeeNumber, r.OfcEmployeeNo)
	out.FullName = strings.TrimSpace(r.FullName)
	out.EngagementID = firstNonEmpty(r.EngagementID, r.ZoomEngID, r.ZoomGUID)
	out.Fields = r.Fields.normalize()
	if out.ZoomGUID == "" {
		out.ZoomGUID = out.EngagementID
	}
	if len(r.ColumnValues) > 0 {
		out.ColumnValues = make(map[string]json.RawMessage, len(r.ColumnValues))
		for k, v := range r.ColumnValues {
			out.ColumnValues[k] = v
		}
	}
	return out
}

func (f Fields) normalize() Fields {
	out := Fields{
		Site:                  strings.TrimSpace(f.Site),
		Reason:                strings.TrimSpace(f.Reason),
		TimeInOut:             strings.TrimSpace(f.TimeInOut),
		StartTime:             strings.TrimSpace(f.StartTime),
		EndTime:               strings.TrimSpace(f.EndTime),
		DeptEmail:             strings.TrimSpace(f.DeptEmail),
		ZoomGUID:              strings.TrimSpace(f.ZoomGUID),
		Shift:                 strings.TrimSpace(f.Shift),
		ItemIDEcho:            strings.TrimSpace(f.ItemIDEcho),
		Email:                 strings.TrimSpace(f.Email),
		Phone:                 strings.TrimSpace(f.Phone),
		CallerID:              strings.TrimSpace(f.CallerID),
		DateTime:              f.DateTime,
		Division:              strings.TrimSpace(f.Division),
		Department:            strings.TrimSpace(f.Department),
		SupervisorDescription: strings.TrimSpace(f.SupervisorDescription),
		WorkState:             firstNonEmpty(f.OfcWorkstate, f.WorkState, f.State),
	}
	return out
}

// ShiftRequest is a call-off against a scheduled cell. SelectionIndex and
// PageStart are only read by the selection variant.
type ShiftRequest struct {
	EmployeeNumber string `json:"employeeNumber"`
	CellID         string `json:"cellId"`
	SelectedCellID string `json:"selectedCellId"`
	Reason         string `json:"reason"`
	Ani            string `json:"ani"`
	CallerID       string `json:"callerId"`
	EngagementID   string `json:"engagementId"`
	DateHint       string `json:"dateHint"`
	DedupeKey      string `json:"dedupeKey"`
	BoardID        string `json:"boardId"`
	SSNLast4       string `json:"ssnLast4"`
	FullName       string `json:"fullName"`
	SelectionIndex int    `json:"selectionIndex"`
	PageStart      int    `json:"pageStart"`
}

func (r ShiftRequest) normalize() ShiftRequest {
	out := r
	out.EmployeeNumber = strings.TrimSpace(r.EmployeeNumber)
	out.CellID = firstNonEmpty(r.CellID, r.SelectedCellID)
	out.Reason = strings.TrimSpace(r.Reason)
	out.CallerID = firstNonEmpty(r.Ani, r.CallerID)
	out.EngagementID = strings.TrimSpace(r.EngagementID)
	out.DateHint = strings.TrimSpace(r.DateHint)
	out.DedupeKey = strings.TrimSpace(r.DedupeKey)
	out.BoardID = strings.TrimSpace(r.BoardID)
	out.SSNLast4 = strings.TrimSpace(r.SSNLast4)
	out.FullName = strings.TrimSpace(r.FullName)
	return out
}

// AbsenceRequest covers absences, early outs and late arrivals described by
// date.
type AbsenceRequest struct {
	EmployeeNumber string `json:"employeeNumber"`
	FullName       string `json:"fullName"`
	CallerID       string `json:"callerId"`
	Ani            string `json:"ani"`
	Email          string `json:"email"`
	Reason         string `json:"reason"`
	DateHint       string `json:"dateHint"`
	SelectedCellID string `json:"selectedCellId"`
	Notes          string `json:"notes"`
	EngagementID   string `json:"engagementId"`
	DedupeKey      string `json:"dedupeKey"`
	BoardID        string `json:"boardId"`
	Department     string `json:"department"`
}

func (r AbsenceRequest) normalize() AbsenceRequest {
	out := r
	out.EmployeeNumber = strings.TrimSpace(r.EmployeeNumber)
	out.FullName = strings.TrimSpace(r.FullName)
	out.CallerID = firstNonEmpty(r.CallerID, r.Ani)
	out.Email = strings.TrimSpace(r.Email)
	out.Reason = strings.TrimSpace(r.Reason)
	out.DateHint = strings.TrimSpace(r.DateHint)
	out.SelectedCellID = strings.TrimSpace(r.SelectedCellID)
	out.Notes = strings.TrimSpace(r.Notes)
	out.EngagementID = strings.TrimSpace(r.EngagementID)
	out.DedupeKey = strings.TrimSpace(r.DedupeKey)
	out.BoardID = strings.TrimSpace(r.BoardID)
	out.Department = strings.TrimSpace(r.Department)
	return out
}

type ResignationRequest struct {
	EmployeeNumber string `json:"employeeNumber"`
	SSNLast4       string `json:"ssnLast4"`
	FullName       string `json:"fullName"`
	CallerID       string `json:"callerId"`
	Ani            string `json:"ani"`
	LastDay        string `json:"lastDay"`
	Reason         string `json:"reason"`
	Notes          string `json:"notes"`
	EngagementID   string `json:"engagementId"`
	DedupeKey      string `json:"dedupeKey"`
	BoardID        string `json:"boardId"`
	Department     string `json:"department"`
}

func (r ResignationRequest) normalize() ResignationRequest {
	out := r
	out.EmployeeNumber = strings.TrimSpace(r.EmployeeNumber)
	out.SSNLast4 = strings.TrimSpace(r.SSNLast4)
	out.FullName = strings.TrimSpace(r.FullName)
	out.CallerID = firstNonEmpty(r.CallerID, r.Ani)
	out.LastDay = strings.TrimSpace(r.LastDay)
	out.Reason = strings.TrimSpace(r.Reason)
	out.Notes = strings.TrimSpace(r.Notes)
	out.EngagementID = strings.TrimSpace(r.EngagementID)
	out.DedupeKey = strings.TrimSpace(r.DedupeKey)
	out.BoardID = strings.TrimSpace(r.BoardID)
	out.Department = strings.TrimSpace(r.Department)
	return out
}

// WriteResult describes one board write or a suppressed duplicate.
type WriteResult struct {
	BoardID      string              `json:"boardId"`
	Item         *monday.Item        `json:"item"`
	ItemName     string              `json:"itemName"`
	DedupeKey    string              `json:"dedupeKey,omitempty"`
	EngagementID string              `json:"engagementId,omitempty"`
	Duplicate    bool                `json:"duplicate"`
	Upserted     bool                `json:"upserted"`
	Updated      bool                `json:"updated"`
	ColumnValues monday.ColumnValues `json:"columnValuesSent"`
}

func (w WriteResult) Message() string {
	switch {
	case w.Duplicate:
		return "Duplicate suppressed by flow guard."
	case w.Updated:
		return "Monday item updated."
	}
	return "Monday item created/updated."
}

// Outcome is the result of an intake: derived routing plus the board write.
type Outcome struct {
	Category   classify.Category `json:"category"`
	TimeInOut  string            `json:"timeInOut,omitempty"`
	Division   string            `json:"division,omitempty"`
	Department string            `json:"department,omitempty"`
	DeptEmail  string            `json:"deptEmail,omitempty"`
	Date       string            `json:"date,omitempty"`
	Verified   bool              `json:"verified,omitempty"`
	Shift      *shifts.Row       `json:"shift,omitempty"`
	WriteResult
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
