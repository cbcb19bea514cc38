package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	WallClockLayout = "2006-01-02T15:04:05"
	DateLayout      = "2006-01-02"
)

var wallClockPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})(?::(\d{2}))?$`)

// ParseWallClock reads a naive "YYYY-MM-DDTHH:mm[:ss]" timestamp. The wall-clock
// fields are placed in UTC so arithmetic and formatting work; the result is not
// the real instant at the site.
func ParseWallClock(s string) (time.Time, bool) {
	m := wallClockPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}
	if month < 1 || month > 12 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func FormatWallClock(t time.Time) string {
	return t.UTC().Format(WallClockLayout)
}

// RollOvernight moves end forward one day when it does not come after start.
// It is not idempotent: callers must apply it once per row.
func RollOvernight(start, end time.Time) time.Time {
	if !end.After(start) {
		return end.Add(24 * time.Hour)
	}
	return end
}

func YMD(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Clock formats the wall-clock time as HH:MM.
func Clock(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Format12h renders "3:05 PM".
func Format12h(t time.Time) string {
	t = t.UTC()
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), ampm)
}

// WeekdayMonthDay renders "Friday, March 14".
func WeekdayMonthDay(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s, %s %d", t.Weekday(), t.Month(), t.Day())
}

// DayStart truncates to midnight UTC of the same calendar day.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses YYYY-MM-DD into midnight UTC.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
