package intake

import (
	"context"
	"strings"

	"intakebridge/internal/domain/classify"
	"intakebridge/internal/domain/normalize"
	"intakebridge/internal/domain/routing"
	"intakebridge/internal/domain/shifts"
	"intakebridge/internal/integrations/monday"
	"intakebridge/internal/integrations/winteam"
	"intakebridge/internal/requestctx"
)

const (
	typeShift       = "shift"
	typeResignation = "resignation"
)

// routingFor derives division, department and the department mailbox.
func (s *Service) routingFor(e *winteam.Employee, explicitDept, reason string) (division, dept, deptEmail string) {
	var supervisor, state string
	if e != nil {
		supervisor = strings.TrimSpace(e.SupervisorDescription)
		state = e.HomeState()
	}
	division = routing.ResolveDivision("", supervisor, state)
	dept = routing.NormalizeDepartment(explicitDept)
	if dept == "" {
		dept = routing.NormalizeDepartment(routing.DepartmentFromReason(reason))
	}
	deptEmail = s.cfg.Directory.DepartmentEmail(supervisor, dept)
	return division, dept, deptEmail
}

func employeeFields(e *winteam.Employee, f *Fields) {
	if e == nil {
		return
	}
	f.Email = strings.TrimSpace(e.EmailAddress)
	f.Phone = normalize.Phone(e.Phone1.String())
	f.SupervisorDescription = strings.TrimSpace(e.SupervisorDescription)
	f.WorkState = e.HomeState()
}

func fullNameOf(e *winteam.Employee, fallback string) string {
	if e != nil {
		if name := e.FullName(); name != "" {
			return name
		}
	}
	return fallback
}

func shiftFields(row *shifts.Row, f *Fields) {
	f.Site = row.Site
	f.StartTime = row.StartLocalISO
	f.EndTime = row.EndLocalISO
	f.Shift = row.Concise
	f.DateTime = dateTimeJSON(monday.DateValue{Date: normalize.YMD(row.Start), Time: row.Start.Format("15:04:05")})
}

// ShiftCallOff writes a call-off for the shift identified by cell id. A
// reason that classifies as a resignation is handed to the resignation flow.
func (s *Service) ShiftCallOff(ctx context.Context, req ShiftRequest) (*Outcome, error) {
	r := req.normalize()
	if classify.Classify(r.Reason) == classify.Resignation {
		return s.Resignation(ctx, ResignationRequest{
			EmployeeNumber: r.EmployeeNumber,
			SSNLast4:       r.SSNLast4,
			FullName:       r.FullName,
			CallerID:       r.CallerID,
			LastDay:        r.DateHint,
			Reason:         r.Reason,
			EngagementID:   r.EngagementID,
			DedupeKey:      r.DedupeKey,
			BoardID:        r.BoardID,
		})
	}
	if r.EmployeeNumber == "" {
		return nil, invalid("employeeNumber required", "employeeNumber")
	}
	if r.CellID == "" {
		return nil, invalid("cellId required", "cellId")
	}
	if r.Reason == "" {
		r.Reason = defaultCallOffReason
	}

	employee := s.lookupEmployee(ctx, r.EmployeeNumber)
	row, err := s.shifts.Resolve(ctx, shifts.Query{EmployeeNumber: r.EmployeeNumber, CellID: r.CellID, DateHint: r.DateHint})
	if err != nil {
		s.metrics.UpstreamFailure()
		return nil, err
	}
	if row == nil {
		return nil, notFound("Shift not found by cellId.")
	}
	return s.writeShift(ctx, r, employee, row)
}

// ShiftCallOffBySelection is the older flow that picks a row (0..2) from the
// current listing page instead of naming a cell id.
func (s *Service) ShiftCallOffBySelection(ctx context.Context, req ShiftRequest) (*Outcome, error) {
	r := req.normalize()
	if r.EmployeeNumber == "" {
		return nil, invalid("employeeNumber required", "employeeNumber")
	}
	if r.Reason == "" {
		r.Reason = defaultCallOffReason
	}
	listing, err := s.shifts.List(ctx, shifts.ListRequest{EmployeeNumber: r.EmployeeNumber, PageStart: r.PageStart})
	if err != nil {
		s.metrics.UpstreamFailure()
		return nil, err
	}
	entries := listing.EntriesPage
	if len(entries) == 0 {
		return nil, notFound("No shifts returned for employee.")
	}
	idx := min(max(r.SelectionIndex, 0), len(entries)-1)
	row := entries[idx]

	if r.DedupeKey == "" {
		if r.EngagementID != "" {
			r.DedupeKey = r.EngagementID
		} else {
			r.DedupeKey = strings.Join([]string{r.EmployeeNumber, firstNonEmpty(row.Site, "site?"), normalize.YMD(row.Start)}, "|")
		}
	}
	employee := s.lookupEmployee(ctx, r.EmployeeNumber)
	return s.writeShift(ctx, r, employee, &row)
}

func (s *Service) writeShift(ctx context.Context, r ShiftRequest, employee *winteam.Employee, row *shifts.Row) (*Outcome, error) {
	category := classify.Classify(r.Reason)
	division, dept, deptEmail := s.routingFor(employee, "", r.Reason)

	fields := Fields{
		Reason:     r.Reason,
		TimeInOut:  classify.ExtractTimeInOut(r.Reason),
		CallerID:   normalize.CallerID(r.CallerID),
		ZoomGUID:   r.EngagementID,
		Division:   division,
		Department: dept,
		DeptEmail:  deptEmail,
	}
	employeeFields(employee, &fields)
	shiftFields(row, &fields)

	key := DedupeKey(DedupeInput{
		Explicit:       r.DedupeKey,
		CorrelationID:  r.EngagementID,
		EmployeeNumber: r.EmployeeNumber,
		Type:           typeShift,
		Identity:       r.EmployeeNumber,
		Date:           normalize.YMD(row.Start),
		Reason:         string(category),
	})
	res, err := s.write(ctx, boardWrite{
		boardID:      r.BoardID,
		itemName:     itemName(r.EmployeeNumber, fullNameOf(employee, r.FullName)),
		dedupeKey:    key,
		engagementID: r.EngagementID,
		columns:      buildColumns(s.cfg.Columns, fields, nil),
	})
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Category:    category,
		TimeInOut:   fields.TimeInOut,
		Division:    division,
		Department:  dept,
		DeptEmail:   deptEmail,
		Date:        normalize.YMD(row.Start),
		Shift:       row,
		WriteResult: *res,
	}, nil
}

// Absence records an absence, early out or late arrival described by date.
// The shift lookup is best-effort.
func (s *Service) Absence(ctx context.Context, req AbsenceRequest) (*Outcome, error) {
	r := req.normalize()
	callerID := normalize.CallerID(r.CallerID)
	if r.EmployeeNumber == "" && (r.FullName == "" || callerID == "") {
		return nil, invalid("Provide employeeNumber or fullName and callerId.", identityMissing(r.EmployeeNumber, r.FullName, callerID)...)
	}
	category := classify.Classify(r.Reason)
	if category == classify.Resignation {
		return nil, unprocessable("Resignations must use the resignation intake.")
	}

	now := s.now()
	hint := firstNonEmpty(r.DateHint, r.Reason)
	day, ok := shifts.ResolveDay(hint, now)
	if !ok {
		day = normalize.DayStart(now)
	}

	employee := s.lookupEmployee(ctx, r.EmployeeNumber)
	var row *shifts.Row
	if r.EmployeeNumber != "" && s.shifts != nil {
		found, err := s.shifts.Resolve(ctx, shifts.Query{
			EmployeeNumber: r.EmployeeNumber,
			CellID:         r.SelectedCellID,
			DateHint:       normalize.YMD(day),
		})
		if err != nil {
			s.metrics.UpstreamFailure()
			requestctx.Logger(ctx).Warn("shift lookup failed", "employeeNumber", r.EmployeeNumber, "err", err)
		}
		row = found
	}

	division, dept, deptEmail := s.routingFor(employee, r.Department, r.Reason)
	fields := Fields{
		Reason:     withNotes(r.Reason, r.Notes),
		TimeInOut:  classify.ExtractTimeInOut(r.Reason),
		CallerID:   callerID,
		ZoomGUID:   r.EngagementID,
		Division:   division,
		Department: dept,
		DeptEmail:  deptEmail,
		DateTime:   dateTimeJSON(monday.DateValue{Date: normalize.YMD(day)}),
	}
	employeeFields(employee, &fields)
	if r.Email != "" {
		fields.Email = r.Email
	}
	if row != nil {
		shiftFields(row, &fields)
	}

	identity := firstNonEmpty(r.EmployeeNumber, callerID)
	key := DedupeKey(DedupeInput{
		Explicit:       r.DedupeKey,
		CorrelationID:  r.EngagementID,
		EmployeeNumber: r.EmployeeNumber,
		Type:           string(category),
		Identity:       identity,
		Date:           normalize.YMD(day),
		Reason:         string(category),
	})
	res, err := s.write(ctx, boardWrite{
		boardID:      r.BoardID,
		itemName:     itemName(r.EmployeeNumber, fullNameOf(employee, r.FullName)),
		dedupeKey:    key,
		engagementID: r.EngagementID,
		columns:      buildColumns(s.cfg.Columns, fields, nil),
	})
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Category:    category,
		TimeInOut:   fields.TimeInOut,
		Division:    division,
		Department:  dept,
		DeptEmail:   deptEmail,
		Date:        normalize.YMD(day),
		Shift:       row,
		WriteResult: *res,
	}, nil
}

// Resignation records a resignation after the employee number and SSN last
// four have been verified. Nothing is written on a failed verification.
func (s *Service) Resignation(ctx context.Context, req ResignationRequest) (*Outcome, error) {
	r := req.normalize()
	callerID := normalize.CallerID(r.CallerID)
	if r.EmployeeNumber == "" && (r.FullName == "" || callerID == "") {
		return nil, invalid("Provide employeeNumber or fullName and callerId.", identityMissing(r.EmployeeNumber, r.FullName, callerID)...)
	}
	if r.Reason != "" && classify.Classify(r.Reason) != classify.Resignation {
		return nil, unprocessable("Reason does not describe a resignation.")
	}
	if r.EmployeeNumber == "" || !fourDigits.MatchString(r.SSNLast4) {
		return nil, unverified("Resignation requires employeeNumber and ssnLast4 verification.")
	}
	employee, err := s.verify(ctx, r.EmployeeNumber, r.SSNLast4)
	if err != nil {
		return nil, err
	}

	now := s.now()
	day, ok := shifts.ResolveDay(firstNonEmpty(r.LastDay, r.Reason), now)
	if !ok {
		day = normalize.DayStart(now)
	}
	reason := firstNonEmpty(r.Reason, "Resignation")

	division, _, _ := s.routingFor(employee, "", "")
	dept := routing.NormalizeDepartment(r.Department)
	if dept == "" {
		dept = routing.DeptOperations
	}
	deptEmail := s.cfg.Directory.DepartmentEmail(employee.SupervisorDescription, dept)

	fields := Fields{
		Reason:     withNotes(reason+" (last day "+normalize.YMD(day)+")", r.Notes),
		CallerID:   callerID,
		ZoomGUID:   r.EngagementID,
		Division:   division,
		Department: dept,
		DeptEmail:  deptEmail,
		DateTime:   dateTimeJSON(monday.DateValue{Date: normalize.YMD(day)}),
	}
	employeeFields(employee, &fields)

	key := DedupeKey(DedupeInput{
		Explicit:       r.DedupeKey,
		CorrelationID:  r.EngagementID,
		EmployeeNumber: r.EmployeeNumber,
		Type:           typeResignation,
		Identity:       r.EmployeeNumber,
		Date:           normalize.YMD(day),
		Reason:         string(classify.Resignation),
	})
	res, err := s.write(ctx, boardWrite{
		boardID:      r.BoardID,
		itemName:     itemName(r.EmployeeNumber, fullNameOf(employee, r.FullName)),
		dedupeKey:    key,
		engagementID: r.EngagementID,
		columns:      buildColumns(s.cfg.Columns, fields, nil),
	})
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Category:    classify.Resignation,
		Division:    division,
		Department:  dept,
		DeptEmail:   deptEmail,
		Date:        normalize.YMD(day),
		Verified:    true,
		WriteResult: *res,
	}, nil
}

func identityMissing(emp, fullName, callerID string) []string {
	if emp != "" {
		return nil
	}
	missing := []string{"employeeNumber"}
	if fullName == "" {
		missing = append(missing, "fullName")
	}
	if callerID == "" {
		missing = append(missing, "callerId")
	}
	return missing
}

func withNotes(reason, notes string) string {
	if notes == "" {
		return reason
	}
	if reason == "" {
		return "Notes: " + notes
	}
	return reason + " | Notes: " + notes
}
