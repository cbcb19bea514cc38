package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	minutesLate   = regexp.MustCompile(`\b(\d{1,3})\s*(?:m|mins?|minutes?)\s+late\b`)
	lateByMinutes = regexp.MustCompile(`\blate\s+by\s+(\d{1,3})\s*(?:m|mins?|minutes?)\b`)
	hoursEarly    = regexp.MustCompile(`\b(\d{1,2}|an|a|one|two|three|four)\s*(?:hours?|hrs?)\s+early\b`)
	leaveBy       = regexp.MustCompile(`\bleave\s+(?:by|at)\s+(\d{1,2})(?::(\d{2}))?\s*(a\.?m\.?|p\.?m\.?)?`)

	wordNumbers = map[string]int{"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4}
)

// ExtractTimeInOut returns "Late +Nm", "Leave early -Nh" or "Leave by HH:MM";
// the first matching pattern wins and "" means nothing was recognized.
func ExtractTimeInOut(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return ""
	}
	if m := minutesLate.FindStringSubmatch(t); m != nil {
		return "Late +" + m[1] + "m"
	}
	if m := lateByMinutes.FindStringSubmatch(t); m != nil {
		return "Late +" + m[1] + "m"
	}
	if m := hoursEarly.FindStringSubmatch(t); m != nil {
		n, ok := wordNumbers[m[1]]
		if !ok {
			n, _ = strconv.Atoi(m[1])
		}
		return fmt.Sprintf("Leave early -%dh", n)
	}
	if m := leaveBy.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour > 23 || minute > 59 {
			return ""
		}
		switch strings.ReplaceAll(m[3], ".", "") {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		return fmt.Sprintf("Leave by %02d:%02d", hour, minute)
	}
	return ""
}
