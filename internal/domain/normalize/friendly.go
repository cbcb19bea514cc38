package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeWeekday = regexp.MustCompile(`\b(next|this)\s+(sunday|monday|tuesday|wednesday|thursday|friday|saturday|sun|mon|tues|tue|wed|thurs|thur|thu|fri|sat)\b`)
	bareWeekday     = regexp.MustCompile(`\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	slashDate       = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2}|\d{4}))?\b`)
	fractionUnit    = regexp.MustCompile(`^\s*(an?\s+)?(hours?|hrs?|h|minutes?|mins?|days?|shifts?)\b`)
	monthNameDate   = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s*(\d{4}))?`)

	weekdayIndex = map[string]time.Weekday{
		"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
		"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	}
	monthIndex = map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
		"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
		"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
	}

	fallbackLayouts = []string{
		DateLayout,
		WallClockLayout,
		"2006-01-02T15:04",
		time.RFC3339,
		"January 2, 2006",
		"Jan 2, 2006",
		"Monday, January 2, 2006",
		"2 January 2006",
	}
)

// FriendlyToDate turns a caller's date phrase ("tomorrow", "next friday",
// "3/14", "Mar 14") into YYYY-MM-DD relative to base. It returns "" when
// nothing in the phrase is recognizable.
//
// "next <weekday>" always adds a week to the naive delta, so on a Wednesday
// "next friday" is nine days out while "this friday" is two. Callers rely on
// that behavior.
func FriendlyToDate(phrase string, base time.Time) string {
	raw := strings.TrimSpace(phrase)
	p := strings.ToLower(raw)
	if p == "" {
		return ""
	}
	today := DayStart(base)

	switch {
	case hasWord(p, "today"), hasWord(p, "tonight"):
		return YMD(today)
	case hasWord(p, "tomorrow"):
		return YMD(today.AddDate(0, 0, 1))
	case hasWord(p, "yesterday"):
		return YMD(today.AddDate(0, 0, -1))
	}

	if m := relativeWeekday.FindStringSubmatch(p); m != nil {
		delta := int(weekdayIndex[m[2][:3]]) - int(today.Weekday())
		if m[1] == "next" {
			delta += 7
		} else if delta < 0 {
			delta += 7
		}
		return YMD(today.AddDate(0, 0, delta))
	}

	if d, ok := slashDateIn(p, today.Year()); ok {
		return YMD(d)
	}

	if m := monthNameDate.FindStringSubmatch(p); m != nil {
		day, _ := strconv.Atoi(m[2])
		year := today.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if d, ok := calendarDate(year, monthIndex[m[1]], day); ok {
			return YMD(d)
		}
	}

	if m := bareWeekday.FindStringSubmatch(p); m != nil {
		delta := int(weekdayIndex[m[1][:3]]) - int(today.Weekday())
		if delta < 0 {
			delta += 7
		}
		return YMD(today.AddDate(0, 0, delta))
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return YMD(t)
		}
	}
	return ""
}

// slashDateIn returns the first M/D[/Y] in p that is a real calendar date.
// Fractions of a unit ("1/2 hour", "3/4 of a shift") are skipped.
func slashDateIn(p string, year int) (time.Time, bool) {
	for _, loc := range slashDate.FindAllStringSubmatchIndex(p, -1) {
		rest := strings.TrimPrefix(strings.TrimSpace(p[loc[1]:]), "of ")
		if fractionUnit.MatchString(rest) {
			continue
		}
		month, _ := strconv.Atoi(p[loc[2]:loc[3]])
		day, _ := strconv.Atoi(p[loc[4]:loc[5]])
		y := year
		if loc[6] >= 0 {
			y, _ = strconv.Atoi(p[loc[6]:loc[7]])
			if y < 100 {
				y += 2000
			}
		}
		if d, ok := calendarDate(y, time.Month(month), day); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func calendarDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func hasWord(s, word string) bool {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	}) {
		if field == word {
			return true
		}
	}
	return false
}
