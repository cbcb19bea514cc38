package routing

import (
	"regexp"
	"strings"
)

// StateNames maps USPS abbreviations to the division labels used on the board.
var StateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi", "MO": "Missouri",
	"MT": "Montana", "NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey",
	"NM": "New Mexico", "NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia", "PR": "Puerto Rico",
}

var leadingState = regexp.MustCompile(`^([A-Z]{2})\b`)

// DivisionFromSupervisor reads the state prefix of descriptions like
// "IL Ops Team" or "AZ Operations".
func DivisionFromSupervisor(desc string) string {
	m := leadingState.FindStringSubmatch(strings.TrimSpace(desc))
	if m == nil {
		return ""
	}
	return StateNames[m[1]]
}

// DivisionFromState maps a raw two-letter code; other non-empty values are
// passed through as-is.
func DivisionFromState(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) == 2 {
		if name, ok := StateNames[strings.ToUpper(s)]; ok {
			return name
		}
	}
	return s
}

// ResolveDivision prefers an explicit division, then the supervisor prefix,
// then the employee's work state.
func ResolveDivision(explicit, supervisorDesc, workState string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := DivisionFromSupervisor(supervisorDesc); v != "" {
		return v
	}
	return DivisionFromState(workState)
}
