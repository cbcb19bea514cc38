package intake

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"intakebridge/internal/domain/routing"
	"intakebridge/internal/domain/shifts"
	"intakebridge/internal/integrations/monday"
	"intakebridge/internal/integrations/winteam"
	"intakebridge/internal/platform/idempotency"
	"intakebridge/internal/platform/metrics"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

type fakeEmployees struct {
	byNumber map[string]*winteam.Employee
	err      error
	calls    int
}

func (f *fakeEmployees) Employee(_ context.Context, employeeNumber string) (*winteam.Employee, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byNumber[employeeNumber], nil
}

type changeCall struct {
	BoardID string
	ItemID  string
	Values  monday.ColumnValues
}

type createCall struct {
	BoardID  string
	ItemName string
	GroupID  string
}

type fakeBoard struct {
	creates  []createCall
	changes  []changeCall
	finds    []string
	existing map[string]*monday.Item
	err      error
}

func (f *fakeBoard) CreateItem(_ context.Context, boardID, itemName, groupID string) (monday.Item, error) {
	if f.err != nil {
		return monday.Item{}, f.err
	}
	f.creates = append(f.creates, createCall{BoardID: boardID, ItemName: itemName, GroupID: groupID})
	return monday.Item{ID: strconv.Itoa(100 + len(f.creates)), Name: itemName}, nil
}

func (f *fakeBoard) ChangeColumnValues(_ context.Context, boardID, itemID string, values monday.ColumnValues) (monday.Item, error) {
	f.changes = append(f.changes, changeCall{BoardID: boardID, ItemID: itemID, Values: values})
	return monday.Item{ID: itemID}, nil
}

func (f *fakeBoard) FindItemByColumn(_ context.Context, _, columnID, value string) (*monday.Item, error) {
	f.finds = append(f.finds, columnID+"="+value)
	return f.existing[value], nil
}

type fakeShiftSource struct {
	groups []winteam.ShiftGroup
	err    error
	calls  int
}

func (f *fakeShiftSource) Shifts(_ context.Context, _ string, from, to time.Time) ([]winteam.ShiftGroup, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	lo, hi := from.Format("2006-01-02"), to.Format("2006-01-02")
	var out []winteam.ShiftGroup
	for _, g := range f.groups {
		kept := g
		kept.Shifts = nil
		for _, sh := range g.Shifts {
			if day := sh.StartTime[:10]; day >= lo && day <= hi {
				kept.Shifts = append(kept.Shifts, sh)
			}
		}
		out = append(out, kept)
	}
	return out, nil
}

type fixture struct {
	svc       *Service
	employees *fakeEmployees
	board     *fakeBoard
	source    *fakeShiftSource
	metrics   *metrics.Collector
}

func newFixture(guard *idempotency.Guard) *fixture {
	employees := &fakeEmployees{byNumber: map[string]*winteam.Employee{
		"12345": {
			EmployeeNumber:        "12345",
			EmployeeID:            "9001",
			FirstName:             "Ana",
			LastName:              "Lopez",
			EmailAddress:          "ana.lopez@example.com",
			Phone1:                "(312) 555-0182",
			SupervisorDescription: "IL Ops Team",
			PartialSSN:            "4321",
		},
	}}
	source := &fakeShiftSource{groups: []winteam.ShiftGroup{{
		EmployeeNumber:  "12345",
		JobDescription:  "Riverside Plaza",
		PostDescription: "Front Desk",
		Shifts: []winteam.Shift{
			{StartTime: "2026-10-18T22:00:00", EndTime: "2026-10-19T06:00:00", Hours: decimal.NewFromInt(8), CellID: "C-200"},
			{StartTime: "2026-10-20T07:00:00", EndTime: "2026-10-20T15:00:00", Hours: decimal.NewFromInt(8), CellID: "C-300"},
		},
	}}}
	board := &fakeBoard{existing: map[string]*monday.Item{}}
	collector := metrics.New()
	clock := func() time.Time { return testNow }
	svc := NewService(Deps{
		Employees: employees,
		Shifts:    shifts.NewService(source, clock),
		Board:     board,
		Guard:     guard,
		Metrics:   collector,
		Now:       clock,
	}, Config{
		BoardID:   "board-1",
		Columns:   monday.DefaultColumns(),
		Directory: routing.DefaultDirectory(),
	})
	return &fixture{svc: svc, employees: employees, board: board, source: source, metrics: collector}
}
