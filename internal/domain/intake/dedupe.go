package intake

import (
	"strings"

	"intakebridge/internal/domain/classify"
)

type DedupeInput struct {
	Explicit       string
	CorrelationID  string
	EmployeeNumber string
	Type           string
	Identity       string
	Date           string
	Reason         string
}

// DedupeKey picks the first available of: the explicit key,
// "{correlation}:{employee}", "{correlation}", and
// "{type}|{identity}|{date}|{reason slug}". The last form is only built when
// a type is given.
func DedupeKey(in DedupeInput) string {
	if v := strings.TrimSpace(in.Explicit); v != "" {
		return v
	}
	corr := strings.TrimSpace(in.CorrelationID)
	emp := strings.TrimSpace(in.EmployeeNumber)
	switch {
	case corr != "" && emp != "":
		return corr + ":" + emp
	case corr != "":
		return corr
	}
	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		return ""
	}
	identity := strings.TrimSpace(in.Identity)
	if identity == "" {
		identity = "unknown"
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = "date?"
	}
	slug := classify.Slug(in.Reason)
	if slug == "" {
		slug = string(classify.Unknown)
	}
	return strings.Join([]string{typ, identity, date, slug}, "|")
}
