// Package classify maps a caller's free-text reason onto a fixed set of intake
// categories and pulls out time-in/out phrases for the board.
package classify

import (
	"regexp"
	"strings"
)

type Category string

const (
	Resignation Category = "resignation"
	EarlyOut    Category = "early_out"
	Absence     Category = "absence"
	LateIn      Category = "late_in"
	Unknown     Category = "unknown"
)

var (
	resignationPattern = regexp.MustCompile(`\b(resign\w*|quit(s|ting)?|two\s*weeks?|2\s*weeks?|last\s+day|put\s+in\s+my\s+notice|giving\s+(my\s+)?notice|notice\s+of\s+resignation|leaving\s+the\s+company|no\s+longer\s+(work|be\s+working))\b`)
	earlyOutPattern    = regexp.MustCompile(`\b(leave|leaving|go|going|head|heading|get\s+off|clock\s+out|clocking\s+out)\s+(work\s+|home\s+)?early\b|\bearly\s*out\b|\bleave\s+(by|at)\s+\d|\b(\d+|an|a|one|two|three)\s*(hours?|hrs?)\s+early\b`)
	absencePattern     = regexp.MustCompile(`\b(call(ing|ed)?\s*off|calloff|call\s*out|calling\s+out|sick|ill|absent|absence|won'?t\s+(be\s+)?(in|there|coming|make\s+it)|not\s+coming\s+in|can'?t\s+(come|make\s+it|work)|cannot\s+(come|make\s+it|work)|day\s+off|miss(ing)?\s+(my\s+)?shift|no\s*show|funeral|emergency|hospital|doctor)\b`)
	lateInPattern      = regexp.MustCompile(`\b(late|running\s+behind|behind\s+schedule|delayed|traffic|stuck|tardy)\b`)
)

// Classify checks the patterns in a fixed priority order: resignation, then
// early out, then absence, then late in. "quitting because I'm always late" is
// a resignation.
func Classify(reason string) Category {
	r := strings.ToLower(strings.TrimSpace(reason))
	if r == "" {
		return Unknown
	}
	switch {
	case resignationPattern.MatchString(r):
		return Resignation
	case earlyOutPattern.MatchString(r):
		return EarlyOut
	case absencePattern.MatchString(r):
		return Absence
	case lateInPattern.MatchString(r):
		return LateIn
	}
	return Unknown
}

// Label is the human readable form written to the board.
func (c Category) Label() string {
	switch c {
	case Resignation:
		return "Resignation"
	case EarlyOut:
		return "Early Out"
	case Absence:
		return "Call Off"
	case LateIn:
		return "Late In"
	}
	return "Other"
}

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases and collapses anything that is not a letter or digit to "-".
func Slug(s string) string {
	out := slugSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(out, "-")
}
