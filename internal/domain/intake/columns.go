package intake

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"intakebridge/internal/domain/normalize"
	"intakebridge/internal/domain/routing"
	"intakebridge/internal/integrations/monday"
)

// buildColumns maps friendly fields onto board column ids. Raw column values
// are copied first so friendly fields win on conflict. Fields with no column
// in the map are skipped.
func buildColumns(cols monday.ColumnMap, f Fields, raw map[string]json.RawMessage) monday.ColumnValues {
	out := monday.ColumnValues{}
	for id, v := range raw {
		if id = strings.TrimSpace(id); id != "" && len(v) > 0 {
			out[id] = v
		}
	}
	set := func(field string, value any) {
		if id := cols[field]; id != "" {
			out[id] = value
		}
	}
	text := func(field, value string) {
		if value != "" {
			set(field, value)
		}
	}

	text(monday.ColSite, f.Site)
	text(monday.ColReason, f.Reason)
	text(monday.ColTimeInOut, f.TimeInOut)
	text(monday.ColStartTime, f.StartTime)
	text(monday.ColEndTime, f.EndTime)
	text(monday.ColDeptEmail, f.DeptEmail)
	text(monday.ColZoomGUID, f.ZoomGUID)
	text(monday.ColShift, f.Shift)
	text(monday.ColItemIDEcho, f.ItemIDEcho)

	if f.Email != "" && strings.Contains(f.Email, "@") {
		set(monday.ColEmail, monday.EmailValue{Email: f.Email, Text: f.Email})
	}
	if p := normalize.BoardPhone(f.Phone); p != "" {
		set(monday.ColPhone, monday.PhoneValue{Phone: p, CountryShortName: "US"})
	}
	if p := normalize.BoardPhone(f.CallerID); p != "" {
		set(monday.ColCallerID, monday.PhoneValue{Phone: p, CountryShortName: "US"})
	}
	if dv, ok := dateValue(f.DateTime); ok {
		set(monday.ColDateTime, dv)
	}

	if division := routing.ResolveDivision(f.Division, f.SupervisorDescription, f.WorkState); division != "" {
		set(monday.ColDivision, monday.StatusValue{Label: division})
	}
	dept := f.Department
	if dept == "" {
		dept = routing.DepartmentFromReason(f.Reason)
	}
	if label := routing.NormalizeDepartment(dept); label != "" {
		set(monday.ColDepartment, monday.StatusValue{Label: label})
	}
	return out
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	normalize.WallClockLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// dateValue accepts either {date,time} or a timestamp string.
func dateValue(raw json.RawMessage) (monday.DateValue, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return monday.DateValue{}, false
	}
	if raw[0] == '{' {
		var dv monday.DateValue
		if err := json.Unmarshal(raw, &dv); err != nil {
			return monday.DateValue{}, false
		}
		dv.Date = strings.TrimSpace(dv.Date)
		dv.Time = strings.TrimSpace(dv.Time)
		return dv, dv.Date != "" || dv.Time != ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return monday.DateValue{}, false
	}
	return parseDateValue(s)
}

func parseDateValue(s string) (monday.DateValue, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return monday.DateValue{}, false
	}
	if d, ok := normalize.ParseDay(s); ok {
		return monday.DateValue{Date: normalize.YMD(d)}, true
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return monday.DateValue{Date: normalize.YMD(t), Time: t.Format("15:04:05")}, true
		}
	}
	return monday.DateValue{}, false
}

func dateTimeJSON(v monday.DateValue) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
