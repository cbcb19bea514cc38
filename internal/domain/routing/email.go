package routing

import (
	"regexp"
	"strings"
)

// Directory holds the mailboxes used to pick a department contact address.
type Directory struct {
	EmailDomain         string
	DepartmentMailboxes map[string]string
	CorporateContacts   []string
	CorporateMailbox    string
}

func DefaultDirectory() Directory {
	return Directory{
		EmailDomain: "secureone.com",
		DepartmentMailboxes: map[string]string{
			DeptTraining:  "training@secureone.com",
			DeptPayroll:   "payroll@secureone.com",
			DeptHR:        "hr@secureone.com",
			DeptCorporate: "corporate@secureone.com",
		},
		CorporateMailbox: "corporate@secureone.com",
	}
}

var stateOps = regexp.MustCompile(`\b([A-Za-z]{2})\s+(?i:ops|operations)\b`)

// DepartmentEmail resolves the contact address in order: explicit department
// mailbox, named corporate contact in the supervisor description, then the
// state operations team.
func (d Directory) DepartmentEmail(supervisorDesc, department string) string {
	if mailbox := d.DepartmentMailboxes[NormalizeDepartment(department)]; mailbox != "" {
		return mailbox
	}

	lowered := strings.ToLower(supervisorDesc)
	for _, name := range d.CorporateContacts {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" && strings.Contains(lowered, name) {
			return d.CorporateMailbox
		}
	}

	if m := stateOps.FindStringSubmatch(supervisorDesc); m != nil {
		state := strings.ToUpper(m[1])
		if _, ok := StateNames[state]; ok && d.EmailDomain != "" {
			return strings.ToLower(state) + "opsteam@" + d.EmailDomain
		}
	}
	return ""
}
