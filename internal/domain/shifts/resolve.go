package shifts

import (
	"context"
	"strings"
	"time"

	"intakebridge/internal/domain/normalize"
	"intakebridge/internal/requestctx"
)

// ResolveDay turns a date hint ("2026-10-17", "tomorrow", "next friday")
// into midnight of that day.
func ResolveDay(hint string, now time.Time) (time.Time, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return time.Time{}, false
	}
	return normalize.ParseDay(normalize.FriendlyToDate(hint, now))
}

// Resolve finds the shift the caller means. With a cell id it searches the
// hinted day, then ±14 days around it, then the listing window of ±10 days
// around the hint and again around today, and finally, without a hint, 29-day
// windows outward from today. Without a cell id it returns the earliest shift on the
// hinted day. A nil row with a nil error means nothing matched.
func (s *Service) Resolve(ctx context.Context, q Query) (*Row, error) {
	emp := strings.TrimSpace(q.EmployeeNumber)
	if emp == "" {
		return nil, ErrEmployeeRequired
	}
	cellID := strings.TrimSpace(q.CellID)
	day, hasDay := ResolveDay(q.DateHint, s.now())

	if cellID == "" {
		if !hasDay {
			return nil, nil
		}
		return s.earliestOn(ctx, emp, day)
	}

	if hasDay {
		if row, err := s.matchWindow(ctx, emp, cellID, day, day.AddDate(0, 0, 1)); row != nil || err != nil {
			return row, err
		}
		if row, err := s.matchWindow(ctx, emp, cellID, day.AddDate(0, 0, -nearbyDays), day.AddDate(0, 0, nearbyDays)); row != nil || err != nil {
			return row, err
		}
	}

	anchors := []time.Time{s.Today()}
	if hasDay && !day.Equal(anchors[0]) {
		anchors = []time.Time{day, anchors[0]}
	}
	for _, anchor := range anchors {
		listing, err := s.List(ctx, ListRequest{
			EmployeeNumber: emp,
			DateFrom:       normalize.YMD(anchor.AddDate(0, 0, -fallbackDays)),
			DateTo:         normalize.YMD(anchor.AddDate(0, 0, fallbackDays)),
		})
		if err != nil {
			return nil, err
		}
		if row := matchCell(listing.Entries, cellID); row != nil {
			return row, nil
		}
	}

	if !hasDay {
		return s.sweep(ctx, emp, cellID)
	}
	requestctx.Logger(ctx).Info("shift not found by cell id", "employeeNumber", emp, "cellId", cellID, "dateHint", q.DateHint)
	return nil, nil
}

func (s *Service) matchWindow(ctx context.Context, emp, cellID string, from, to time.Time) (*Row, error) {
	rows, err := s.Rows(ctx, emp, from, to)
	if err != nil {
		return nil, err
	}
	return matchCell(rows, cellID), nil
}

func (s *Service) sweep(ctx context.Context, emp, cellID string) (*Row, error) {
	today := s.Today()

	last := today.AddDate(0, 0, sweepForwardDays)
	for from := today; !from.After(last); {
		to := from.AddDate(0, 0, sweepWindowDays-1)
		if to.After(last) {
			to = last
		}
		if row, err := s.matchWindow(ctx, emp, cellID, from, to); row != nil || err != nil {
			return row, err
		}
		from = to.AddDate(0, 0, 1)
	}

	first := today.AddDate(0, 0, -sweepBackwardDays)
	for to := today.AddDate(0, 0, -1); !to.Before(first); {
		from := to.AddDate(0, 0, -(sweepWindowDays - 1))
		if from.Before(first) {
			from = first
		}
		if row, err := s.matchWindow(ctx, emp, cellID, from, to); row != nil || err != nil {
			return row, err
		}
		to = from.AddDate(0, 0, -1)
	}

	requestctx.Logger(ctx).Info("shift not found by cell id", "employeeNumber", emp, "cellId", cellID)
	return nil, nil
}

func (s *Service) earliestOn(ctx context.Context, emp string, day time.Time) (*Row, error) {
	rows, err := s.Rows(ctx, emp, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	var best *Row
	for i := range rows {
		if !normalize.DayStart(rows[i].Start).Equal(day) {
			continue
		}
		if best == nil || rows[i].Start.Before(best.Start) {
			best = &rows[i]
		}
	}
	return best, nil
}

// matchCell compares cell ids exactly; schedule-detail ids are never used.
func matchCell(rows []Row, cellID string) *Row {
	if cellID == "" {
		return nil
	}
	for i := range rows {
		if rows[i].CellID != "" && rows[i].CellID == cellID {
			row := rows[i]
			return &row
		}
	}
	return nil
}
