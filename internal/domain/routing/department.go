package routing

import (
	"regexp"
	"strings"
)

const (
	DeptOperations = "Operations"
	DeptPayroll    = "Payroll"
	DeptTraining   = "Training"
	DeptHR         = "HR"
	DeptCorporate  = "Corporate"
	DeptOther      = "Other"
)

var (
	payrollKeywords  = regexp.MustCompile(`\b(payroll|pay\s*issue|pay\s*check|paycheck|pay\s*stub|paystub|direct\s*deposit|w-?2|tax(es)?|withhold\w*)\b`)
	trainingKeywords = regexp.MustCompile(`\b(training|train\s+me|course|lms|certs?|certification\w*|certified|guard\s*card|orientation)\b`)
	// The resignation terms are never reached from the resignation flow, which
	// classifies first and sets its own category.
	operationsKeywords = regexp.MustCompile(`\b(call(ing|ed)?\s*off|calloff|call\s*out|no\s*show|sick|ill|absent|absence|late|tardy|running\s+behind|traffic|early|leave\s+(by|at)|coverage|schedule\w*|shift|incident|report|time\s*card|timecard|punch|missed\s*punch|transport\w*|car|ride|bus|train|family|personal|child|kid|emergency|funeral|hospital|doctor|resign\w*|quit(s|ting)?|two\s*weeks?|last\s+day)\b`)
)

// DepartmentFromReason derives the routing department from a reason string.
func DepartmentFromReason(reason string) string {
	r := strings.ToLower(reason)
	switch {
	case payrollKeywords.MatchString(r):
		return DeptPayroll
	case trainingKeywords.MatchString(r):
		return DeptTraining
	case operationsKeywords.MatchString(r):
		return DeptOperations
	}
	return DeptOther
}

var departmentAliases = map[string]string{
	"operations":      DeptOperations,
	"operation":       DeptOperations,
	"ops":             DeptOperations,
	"payroll":         DeptPayroll,
	"pay":             DeptPayroll,
	"training":        DeptTraining,
	"hr":              DeptHR,
	"human resources": DeptHR,
	"corporate":       DeptCorporate,
	"corp":            DeptCorporate,
	"other":           DeptOther,
}

// NormalizeDepartment maps free-form labels onto the board's status labels.
// Unknown labels come back empty so they are never sent as a status value.
func NormalizeDepartment(label string) string {
	key := strings.Join(strings.Fields(strings.ToLower(label)), " ")
	return departmentAliases[key]
}
