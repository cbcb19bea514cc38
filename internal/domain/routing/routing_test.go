package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDivisionFromSupervisor(t *testing.T) {
	assert.Equal(t, "Illinois", DivisionFromSupervisor("IL Ops Team"))
	assert.Equal(t, "Arizona", DivisionFromSupervisor("  AZ Operations"))
	assert.Equal(t, "", DivisionFromSupervisor("ZZ Night Shift"))
	assert.Equal(t, "", DivisionFromSupervisor("il ops team"))
	assert.Equal(t, "", DivisionFromSupervisor("Corporate"))
	assert.Equal(t, "", DivisionFromSupervisor(""))
}

func TestResolveDivision(t *testing.T) {
	assert.Equal(t, "Midwest", ResolveDivision("Midwest", "IL Ops Team", "TX"))
	assert.Equal(t, "Illinois", ResolveDivision("", "IL Ops Team", "TX"))
	assert.Equal(t, "Texas", ResolveDivision("", "Night Supervisor", "tx"))
	assert.Equal(t, "Ontario", ResolveDivision("", "", "Ontario"))
	assert.Equal(t, "", ResolveDivision("", "", ""))
}

func TestDepartmentFromReason(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{reason: "my paycheck is short", want: DeptPayroll},
		{reason: "question about my W2", want: DeptPayroll},
		{reason: "guard card renewal", want: DeptTraining},
		{reason: "calling off sick tomorrow", want: DeptOperations},
		{reason: "car broke down", want: DeptOperations},
		{reason: "I quit", want: DeptOperations},
		{reason: "missed my train, calling off", want: DeptOperations},
		{reason: "the train is delayed", want: DeptOperations},
		{reason: "can someone train me on the new post", want: DeptTraining},
		{reason: "my CPR cert expired", want: DeptTraining},
		{reason: "I'm certainly not coming in, sick", want: DeptOperations},
		{reason: "quite confused about my uniform", want: DeptOther},
		{reason: "uniform size", want: DeptOther},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DepartmentFromReason(tc.reason), tc.reason)
	}
}

func TestNormalizeDepartment(t *testing.T) {
	assert.Equal(t, DeptOperations, NormalizeDepartment(" OPS "))
	assert.Equal(t, DeptHR, NormalizeDepartment("Human   Resources"))
	assert.Equal(t, DeptPayroll, NormalizeDepartment("payroll"))
	assert.Equal(t, "", NormalizeDepartment("Facilities"))
}

func TestDepartmentEmail(t *testing.T) {
	dir := DefaultDirectory()
	dir.CorporateContacts = []string{"Dana Whitfield"}

	assert.Equal(t, "training@secureone.com", dir.DepartmentEmail("IL Ops Team", "Training"))
	assert.Equal(t, "hr@secureone.com", dir.DepartmentEmail("IL Ops Team", "human resources"))
	assert.Equal(t, "corporate@secureone.com", dir.DepartmentEmail("Supervisor: dana whitfield", "Operations"))
	assert.Equal(t, "ilopsteam@secureone.com", dir.DepartmentEmail("IL Ops Team", "Operations"))
	assert.Equal(t, "azopsteam@secureone.com", dir.DepartmentEmail("AZ Operations", ""))
	assert.Equal(t, "", dir.DepartmentEmail("ZZ Ops", "Operations"))
	assert.Equal(t, "", dir.DepartmentEmail("Night Shift", "Other"))
}
