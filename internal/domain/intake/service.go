// Package intake orchestrates the voice intake flows: identify the caller,
// classify the reason, resolve the shift, derive routing and write exactly
// one board item per dedupe key.
package intake

import (
	"context"
	"regexp"
	"strings"
	"time"

	"intakebridge/internal/domain/normalize"
	"intakebridge/internal/domain/routing"
	"intakebridge/internal/domain/shifts"
	"intakebridge/internal/integrations/monday"
	"intakebridge/internal/integrations/winteam"
	"intakebridge/internal/platform/idempotency"
	"intakebridge/internal/platform/metrics"
	"intakebridge/internal/requestctx"
)

type Employees interface {
	Employee(ctx context.Context, employeeNumber string) (*winteam.Employee, error)
}

type Board interface {
	CreateItem(ctx context.Context, boardID, itemName, groupID string) (monday.Item, error)
	ChangeColumnValues(ctx context.Context, boardID, itemID string, values monday.ColumnValues) (monday.Item, error)
	FindItemByColumn(ctx context.Context, boardID, columnID, value string) (*monday.Item, error)
}

type Config struct {
	BoardID   string
	Columns   monday.ColumnMap
	Directory routing.Directory
}

type Deps struct {
	Employees Employees
	Shifts    *shifts.Service
	Board     Board
	Guard     *idempotency.Guard
	Metrics   *metrics.Collector
	Now       func() time.Time
}

type Service struct {
	employees Employees
	shifts    *shifts.Service
	board     Board
	guard     *idempotency.Guard
	metrics   *metrics.Collector
	cfg       Config
	now       func() time.Time
}

func NewService(deps Deps, cfg Config) *Service {
	if cfg.Columns == nil {
		cfg.Columns = monday.DefaultColumns()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Guard == nil {
		deps.Guard = idempotency.NewGuard(nil, 0)
	}
	return &Service{
		employees: deps.Employees,
		shifts:    deps.Shifts,
		board:     deps.Board,
		guard:     deps.Guard,
		metrics:   deps.Metrics,
		cfg:       cfg,
		now:       deps.Now,
	}
}

var fourDigits = regexp.MustCompile(`^\d{4}$`)

// Authenticate verifies an employee number against the last four SSN digits
// on record.
func (s *Service) Authenticate(ctx context.Context, req AuthRequest) (*EmployeeProfile, error) {
	emp := strings.TrimSpace(req.EmployeeNumber)
	last4 := strings.TrimSpace(req.SSNLast4)
	if emp == "" || !fourDigits.MatchString(last4) {
		return nil, invalid("Expect { employeeNumber, ssnLast4(4 digits) }.")
	}
	e, err := s.verify(ctx, emp, last4)
	if err != nil {
		return nil, err
	}
	return profile(e), nil
}

func (s *Service) verify(ctx context.Context, emp, last4 string) (*winteam.Employee, error) {
	e, err := s.employees.Employee(ctx, emp)
	if err != nil {
		s.metrics.UpstreamFailure()
		return nil, err
	}
	if e == nil {
		return nil, notFound("No matching employee found.")
	}
	if e.PartialSSN.String() != last4 {
		requestctx.Logger(ctx).Info("ssn verification failed", "employeeNumber", emp)
		return nil, unverified("SSN verification failed.")
	}
	return e, nil
}

func profile(e *winteam.Employee) *EmployeeProfile {
	return &EmployeeProfile{
		FirstName:             strings.TrimSpace(e.FirstName),
		LastName:              strings.TrimSpace(e.LastName),
		FullName:              e.FullName(),
		EmailAddress:          strings.TrimSpace(e.EmailAddress),
		Phone1:                normalize.Phone(e.Phone1.String()),
		SupervisorDescription: strings.TrimSpace(e.SupervisorDescription),
		EmployeeNumber:        e.EmployeeNumber.String(),
		EmployeeID:            e.EmployeeID.String(),
		StatusDescription:     strings.TrimSpace(e.StatusDescription),
		TypeDescription:       strings.TrimSpace(e.TypeDescription),
	}
}

// lookupEmployee is the best-effort lookup used by intakes that do not
// require verification. Failures are logged and yield nil.
func (s *Service) lookupEmployee(ctx context.Context, emp string) *winteam.Employee {
	if emp == "" || s.employees == nil {
		return nil
	}
	e, err := s.employees.Employee(ctx, emp)
	if err != nil {
		s.metrics.UpstreamFailure()
		requestctx.Logger(ctx).Warn("employee lookup failed", "employeeNumber", emp, "err", err)
		return nil
	}
	return e
}

// WriteBoard is the generic board write. Manual mode requires the caller's
// name, a reason and a contact channel; auto mode requires an item name.
func (s *Service) WriteBoard(ctx context.Context, req BoardWriteRequest) (*WriteResult, error) {
	r := req.Normalize()
	if r.Mode == ModeManual {
		var missing []string
		if r.FullName == "" {
			missing = append(missing, "fullName")
		}
		if r.Reason == "" {
			missing = append(missing, "reason")
		}
		if r.Email == "" && r.Phone == "" && r.CallerID == "" {
			missing = append(missing, "email|phone|callerId")
		}
		if len(missing) > 0 {
			return nil, invalid("Manual mode requires fullName, reason and a contact channel.", missing...)
		}
		if r.ItemName == "" {
			r.ItemName = itemName(r.EmployeeNumber, r.FullName)
		}
	}
	if r.ItemName == "" {
		return nil, invalid("itemName is required.", "itemName")
	}
	key := DedupeKey(DedupeInput{
		Explicit:       r.DedupeKey,
		CorrelationID:  r.EngagementID,
		EmployeeNumber: r.EmployeeNumber,
	})
	return s.write(ctx, boardWrite{
		boardID:      r.BoardID,
		groupID:      r.GroupID,
		itemName:     r.ItemName,
		dedupeKey:    key,
		engagementID: r.EngagementID,
		columns:      buildColumns(s.cfg.Columns, r.Fields, r.ColumnValues),
	})
}

type boardWrite struct {
	boardID      string
	groupID      string
	itemName     string
	dedupeKey    string
	engagementID string
	columns      monday.ColumnValues
}

// write performs the guard check, one create-or-update and the guard mark.
// With an engagement id the board is searched on the correlation column and
// a match is updated in place.
func (s *Service) write(ctx context.Context, w boardWrite) (*WriteResult, error) {
	boardID := firstNonEmpty(w.boardID, s.cfg.BoardID)
	if boardID == "" {
		return nil, invalid("boardId is required (env or body).", "boardId")
	}
	res := &WriteResult{
		BoardID:      boardID,
		ItemName:     w.itemName,
		DedupeKey:    w.dedupeKey,
		EngagementID: w.engagementID,
		ColumnValues: w.columns,
	}

	if s.guard.Seen(ctx, w.dedupeKey) {
		s.metrics.DuplicateSuppressed()
		requestctx.Logger(ctx).Info("duplicate suppressed", "dedupeKey", w.dedupeKey, "boardId", boardID)
		res.Duplicate = true
		return res, nil
	}

	var existing *monday.Item
	if corrCol := s.cfg.Columns[monday.ColZoomGUID]; w.engagementID != "" && corrCol != "" {
		found, err := s.board.FindItemByColumn(ctx, boardID, corrCol, w.engagementID)
		if err != nil {
			s.metrics.UpstreamFailure()
			return nil, err
		}
		existing = found
	}

	item := existing
	if item == nil {
		created, err := s.board.CreateItem(ctx, boardID, w.itemName, w.groupID)
		if err != nil {
			s.metrics.UpstreamFailure()
			return nil, err
		}
		item = &created
	} else {
		res.Updated = true
	}

	if len(w.columns) > 0 {
		if _, err := s.board.ChangeColumnValues(ctx, boardID, item.ID, w.columns); err != nil {
			s.metrics.UpstreamFailure()
			requestctx.Logger(ctx).Warn("column update failed", "boardId", boardID, "itemId", item.ID, "err", err)
			return nil, err
		}
	}

	s.guard.Mark(ctx, w.dedupeKey)
	s.metrics.BoardWrite()
	res.Item = item
	res.Upserted = true
	return res, nil
}

func itemName(emp, fullName string) string {
	if emp == "" {
		emp = "unknown"
	}
	if fullName == "" {
		fullName = unknownCaller
	}
	return emp + " | " + fullName
}
