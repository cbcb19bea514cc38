package shifts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intakebridge/internal/integrations/upstream"
	"intakebridge/internal/integrations/winteam"
)

type window struct{ from, to string }

type fakeSource struct {
	group winteam.ShiftGroup
	calls []window
	err   error
}

func (f *fakeSource) Shifts(_ context.Context, _ string, from, to time.Time) ([]winteam.ShiftGroup, error) {
	f.calls = append(f.calls, window{from.Format("2006-01-02"), to.Format("2006-01-02")})
	if f.err != nil {
		return nil, f.err
	}
	out := f.group
	out.Shifts = nil
	for _, sh := range f.group.Shifts {
		day := sh.StartTime[:10]
		if day >= from.Format("2006-01-02") && day <= to.Format("2006-01-02") {
			out.Shifts = append(out.Shifts, sh)
		}
	}
	return []winteam.ShiftGroup{out}, nil
}

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newFixture() (*Service, *fakeSource) {
	src := &fakeSource{group: winteam.ShiftGroup{
		EmployeeNumber:  "12345",
		JobDescription:  "Riverside Plaza",
		PostDescription: "Front Desk",
		UTCOffset:       decimal.NewFromInt(-5),
		Shifts: []winteam.Shift{
			{StartTime: "2026-09-20T07:00:00", EndTime: "2026-09-20T15:00:00", Hours: decimal.NewFromInt(8), CellID: "C-100", ScheduleDetailID: "SD-9"},
			{StartTime: "2026-10-18T22:00:00", EndTime: "2026-10-18T06:00:00", Hours: decimal.NewFromInt(8), CellID: "C-200", ScheduleDetailID: "SD-9"},
			{StartTime: "2026-10-18T14:00", EndTime: "2026-10-18T18:00", Hours: decimal.NewFromInt(4), CellID: "C-201"},
			{StartTime: "2026-11-05T07:00:00", EndTime: "2026-11-05T15:00:00", Hours: decimal.NewFromInt(8), CellID: "C-300"},
			{StartTime: "not a time", EndTime: "2026-10-18T06:00:00", CellID: "C-BAD"},
		},
	}}
	return NewService(src, func() time.Time { return testNow }), src
}

func TestResolveExactDayHit(t *testing.T) {
	svc, src := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: " C-200 ", DateHint: "2026-10-18"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "C-200", row.CellID)
	assert.Equal(t, "2026-10-19T06:00:00", row.EndLocalISO)
	assert.Equal(t, []window{{"2026-10-18", "2026-10-19"}}, src.calls)
}

func TestResolveFriendlyHint(t *testing.T) {
	svc, src := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: "C-201", DateHint: "this sunday"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "C-201", row.CellID)
	assert.Len(t, src.calls, 1)
}

func TestResolveWidensAroundHint(t *testing.T) {
	svc, src := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: "C-300", DateHint: "2026-10-28"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "C-300", row.CellID)
	assert.Equal(t, []window{{"2026-10-28", "2026-10-29"}, {"2026-10-14", "2026-11-11"}}, src.calls)
}

func TestResolveFallsBackToListingAroundToday(t *testing.T) {
	svc, src := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: "C-200", DateHint: "2026-12-20"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "C-200", row.CellID)
	assert.Equal(t, []window{
		{"2026-12-20", "2026-12-21"},
		{"2026-12-06", "2027-01-03"},
		{"2026-12-10", "2026-12-30"},
		{"2026-10-06", "2026-10-26"},
	}, src.calls)
}

func TestResolveHintedMissGivesUp(t *testing.T) {
	svc, src := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: "C-999", DateHint: "2026-12-20"})
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.Len(t, src.calls, 4)
}

func TestResolveWithoutHintSweepsForward(t *testing.T) {
	svc, src := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: "C-300"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "2026-11-05T07:00:00", row.StartLocalISO)
	assert.Equal(t, []window{{"2026-10-06", "2026-10-26"}, {"2026-10-16", "2026-11-13"}}, src.calls)
}

func TestResolveWithoutHintSweepsBackward(t *testing.T) {
	svc, src := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: "C-100"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "C-100", row.CellID)
	assert.Equal(t, window{"2026-09-17", "2026-10-15"}, src.calls[len(src.calls)-1])
	assert.Len(t, src.calls, 6)
}

func TestResolveNeverMatchesScheduleDetailID(t *testing.T) {
	svc, _ := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: "SD-9", DateHint: "2026-10-18"})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestResolveCellIDIsCaseSensitive(t *testing.T) {
	svc, _ := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: "c-200", DateHint: "2026-10-18"})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestResolveEarliestOnDay(t *testing.T) {
	svc, _ := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", DateHint: "2026-10-18"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "C-201", row.CellID)
}

func TestResolveNothingToGoOn(t *testing.T) {
	svc, src := newFixture()

	row, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345"})
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.Empty(t, src.calls)

	_, err = svc.Resolve(context.Background(), Query{CellID: "C-200"})
	assert.ErrorIs(t, err, ErrEmployeeRequired)
}

func TestResolvePropagatesUpstreamErrors(t *testing.T) {
	svc, src := newFixture()
	src.err = upstream.NewError(winteam.Service, 503, "unavailable")

	_, err := svc.Resolve(context.Background(), Query{EmployeeNumber: "12345", CellID: "C-200", DateHint: "2026-10-18"})
	upErr, ok := upstream.As(err)
	require.True(t, ok)
	assert.Equal(t, 503, upErr.Status)
	assert.Len(t, src.calls, 1)
}

func TestListDefaultWindowAndPaging(t *testing.T) {
	svc, src := newFixture()

	listing, err := svc.List(context.Background(), ListRequest{EmployeeNumber: "12345"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16 → 2026-10-31", listing.Window)
	assert.Equal(t, []window{{"2026-10-16", "2026-10-31"}}, src.calls)
	assert.Equal(t, Counts{Rows: 2, Filtered: 2}, listing.Counts)
	assert.Equal(t, "C-201", listing.Entries[0].CellID)
	assert.Equal(t, Page{PageStart: 0, NextPageStart: 0, HasNext: false, PageCount: 2}, listing.Page)
	assert.Equal(t, "2026-10-18 14:00 → 18:00 @ Riverside Plaza (Front Desk)", listing.Entries[0].Concise)
	assert.Equal(t, "Sunday, October 18, 10:00 PM to Monday, October 19 6:00 AM at Riverside Plaza (Front Desk)", listing.Entries[1].SpeakLine)
}

func TestListFiltersByRangeAndPages(t *testing.T) {
	svc, _ := newFixture()

	listing, err := svc.List(context.Background(), ListRequest{EmployeeNumber: "12345", DateFrom: "2026-09-01", DateTo: "2026-11-30", PageStart: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, listing.Counts.Filtered)
	assert.Equal(t, Page{PageStart: 3, NextPageStart: 3, HasNext: false, PageCount: 1}, listing.Page)
	assert.Equal(t, "C-300", listing.EntriesPage[0].CellID)

	first, err := svc.List(context.Background(), ListRequest{EmployeeNumber: "12345", DateFrom: "2026-09-01", DateTo: "2026-11-30"})
	require.NoError(t, err)
	assert.Equal(t, Page{PageStart: 0, NextPageStart: 3, HasNext: true, PageCount: 3}, first.Page)
	assert.Len(t, first.SpeakablePage, 3)
}

func TestCanonicalizeDropsUnparsableRows(t *testing.T) {
	svc, _ := newFixture()

	rows := canonicalize("12345", []winteam.ShiftGroup{svc.source.(*fakeSource).group})
	assert.Len(t, rows, 4)
}

func TestListValidation(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.List(context.Background(), ListRequest{})
	assert.ErrorIs(t, err, ErrEmployeeRequired)
	_, err = svc.List(context.Background(), ListRequest{EmployeeNumber: "1", DateFrom: "10/18"})
	assert.True(t, errors.Is(err, ErrInvalidDate))
}
