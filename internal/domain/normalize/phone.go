package normalize

import (
	"regexp"
	"strings"
)

var (
	nonDigits     = regexp.MustCompile(`\D+`)
	nonPhoneChars = regexp.MustCompile(`[^+\d]`)
	e164Pattern   = regexp.MustCompile(`^\+\d{8,15}$`)
)

// Phone normalizes a US-centric phone number to +1XXXXXXXXXX. Numbers that are
// already E.164 pass through; anything else comes back trimmed.
func Phone(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	digits := nonDigits.ReplaceAllString(s, "")
	switch {
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	case len(digits) == 10:
		return "+1" + digits
	case e164Pattern.MatchString(s):
		return s
	}
	return s
}

// CallerID is the strict variant used for caller-id style input (ANI). It
// returns "" when the input cannot be turned into a dialable number.
func CallerID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "+") {
		if cleaned := nonPhoneChars.ReplaceAllString(s, ""); e164Pattern.MatchString(cleaned) {
			return cleaned
		}
	}
	digits := nonDigits.ReplaceAllString(s, "")
	switch {
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	case len(digits) == 10:
		return "+1" + digits
	}
	return ""
}

// BoardPhone keeps only digits and '+' for phone columns.
func BoardPhone(raw string) string {
	return strings.TrimSpace(nonPhoneChars.ReplaceAllString(raw, ""))
}
