// Package shifts turns WinTeam shift detail responses into canonical rows and
// finds the shift an intake call refers to.
package shifts

import (
	"context"
	"sort"
	"strings"
	"time"

	"intakebridge/internal/domain/normalize"
	"intakebridge/internal/integrations/winteam"
)

const (
	PageSize          = 3
	defaultListDays   = 15
	fallbackDays      = 10
	nearbyDays        = 14
	sweepWindowDays   = 29
	sweepForwardDays  = 90
	sweepBackwardDays = 60
)

type Source interface {
	Shifts(ctx context.Context, employeeNumber string, from, to time.Time) ([]winteam.ShiftGroup, error)
}

type Service struct {
	source Source
	now    func() time.Time
}

func NewService(source Source, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{source: source, now: now}
}

func (s *Service) Today() time.Time {
	return normalize.DayStart(s.now())
}

// Rows fetches every shift in [from, to] and canonicalizes it. Rows whose
// timestamps do not parse are dropped.
func (s *Service) Rows(ctx context.Context, employeeNumber string, from, to time.Time) ([]Row, error) {
	groups, err := s.source.Shifts(ctx, employeeNumber, from, to)
	if err != nil {
		return nil, err
	}
	return canonicalize(employeeNumber, groups), nil
}

func canonicalize(employeeNumber string, groups []winteam.ShiftGroup) []Row {
	var rows []Row
	for _, g := range groups {
		site := strings.TrimSpace(g.JobDescription)
		role := strings.TrimSpace(g.PostDescription)
		emp := g.EmployeeNumber.String()
		if emp == "" {
			emp = strings.TrimSpace(employeeNumber)
		}
		for _, sh := range g.Shifts {
			start, ok := normalize.ParseWallClock(strings.TrimSpace(sh.StartTime))
			if !ok {
				continue
			}
			end, ok := normalize.ParseWallClock(strings.TrimSpace(sh.EndTime))
			if !ok {
				continue
			}
			end = normalize.RollOvernight(start, end)
			cellID := sh.CellID.String()
			rows = append(rows, Row{
				EmployeeNumber:   emp,
				Site:             site,
				Role:             role,
				UTCOffset:        g.UTCOffset,
				Hours:            sh.Hours,
				HourType:         sh.HourType.String(),
				HourDescription:  strings.TrimSpace(sh.HourDescription),
				CellID:           cellID,
				ScheduleDetailID: sh.ScheduleDetailID.String(),
				ID:               cellID,
				StartLocalISO:    normalize.FormatWallClock(start),
				EndLocalISO:      normalize.FormatWallClock(end),
				Concise:          concise(start, end, site, role),
				SpeakLine:        speakLine(start, end, site, role),
				Start:            start,
				End:              end,
			})
		}
	}
	return rows
}

func concise(start, end time.Time, site, role string) string {
	var b strings.Builder
	b.WriteString(normalize.YMD(start) + " " + normalize.Clock(start) + " → " + normalize.Clock(end))
	if site != "" {
		b.WriteString(" @ " + site)
	}
	if role != "" {
		b.WriteString(" (" + role + ")")
	}
	return b.String()
}

func speakLine(start, end time.Time, site, role string) string {
	var b strings.Builder
	b.WriteString(normalize.WeekdayMonthDay(start) + ", " + normalize.Format12h(start))
	b.WriteString(" to " + normalize.WeekdayMonthDay(end) + " " + normalize.Format12h(end))
	if site != "" {
		b.WriteString(" at " + site)
	}
	if role != "" {
		b.WriteString(" (" + role + ")")
	}
	return b.String()
}

// List returns the caller-facing listing: the window defaults to today
// through today+15, and when both bounds are given rows are kept if their
// start or end date falls in [dateFrom, dateTo).
func (s *Service) List(ctx context.Context, req ListRequest) (*Listing, error) {
	emp := strings.TrimSpace(req.EmployeeNumber)
	if emp == "" {
		return nil, ErrEmployeeRequired
	}
	reqFrom := strings.TrimSpace(req.DateFrom)
	reqTo := strings.TrimSpace(req.DateTo)

	today := s.Today()
	from, to := today, today.AddDate(0, 0, defaultListDays)
	if reqFrom != "" {
		d, ok := normalize.ParseDay(reqFrom)
		if !ok {
			return nil, ErrInvalidDate
		}
		from = d
	}
	if reqTo != "" {
		d, ok := normalize.ParseDay(reqTo)
		if !ok {
			return nil, ErrInvalidDate
		}
		to = d
	}

	rows, err := s.Rows(ctx, emp, from, to)
	if err != nil {
		return nil, err
	}

	filtered := rows
	if reqFrom != "" && reqTo != "" {
		filtered = make([]Row, 0, len(rows))
		for _, r := range rows {
			if inRange(r.Start, from, to) || inRange(r.End, from, to) {
				filtered = append(filtered, r)
			}
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Start.Before(filtered[j].Start) })

	start := req.PageStart
	if start < 0 {
		start = 0
	}
	total := len(filtered)
	pageRows := []Row{}
	if start < total {
		pageRows = filtered[start:min(start+PageSize, total)]
	}
	hasNext := start+PageSize < total
	next := start
	if hasNext {
		next = start + PageSize
	}

	return &Listing{
		Window: normalize.YMD(from) + " → " + normalize.YMD(to),
		Counts: Counts{Rows: len(rows), Filtered: total},
		Page: Page{
			PageStart:     start,
			NextPageStart: next,
			HasNext:       hasNext,
			PageCount:     len(pageRows),
		},
		SpeakablePage: speakables(pageRows),
		EntriesPage:   pageRows,
		Speakable:     speakables(filtered),
		Entries:       filtered,
	}, nil
}

func inRange(t, from, to time.Time) bool {
	day := normalize.DayStart(t)
	return !day.Before(from) && day.Before(to)
}

func speakables(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.SpeakLine)
	}
	return out
}
