package middleware

import (
	"net/http"
	"regexp"
	"strings"
)

const MaxLogBody = 2048

var (
	emailPattern = regexp.MustCompile(`([A-Za-z0-9._%+-])[A-Za-z0-9._%+-]*@([A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
	ssnPattern   = regexp.MustCompile(`(?i)("ssnLast4"\s*:\s*")(\d{0,4})(")`)
	digitPattern = regexp.MustCompile(`\d`)

	sensitiveHeader = regexp.MustCompile(`(?i)authorization|api|key|token|cookie`)
)

var safeHeaders = map[string]bool{
	"content-type":    true,
	"user-agent":      true,
	"x-forwarded-for": true,
	"x-real-ip":       true,
	"accept":          true,
	"accept-encoding": true,
	"accept-language": true,
	"host":            true,
	"origin":          true,
	"referer":         true,
}

// MaskPII hides e-mail local parts, all but the last two digits of
// phone-like runs and the submitted SSN digits.
func MaskPII(s string) string {
	if s == "" {
		return s
	}
	s = emailPattern.ReplaceAllString(s, "$1***@$2")
	s = phonePattern.ReplaceAllStringFunc(s, func(m string) string {
		if len(m) <= 2 {
			return m
		}
		return digitPattern.ReplaceAllString(m[:len(m)-2], "x") + m[len(m)-2:]
	})
	s = ssnPattern.ReplaceAllStringFunc(s, func(m string) string {
		parts := ssnPattern.FindStringSubmatch(m)
		masked := "***"
		if digits := parts[2]; digits != "" {
			masked += digits[len(digits)-1:]
		}
		return parts[1] + masked + parts[3]
	})
	return s
}

// Preview masks s and cuts it to MaxLogBody bytes.
func Preview(s string) string {
	s = MaskPII(s)
	if len(s) > MaxLogBody {
		return s[:MaxLogBody]
	}
	return s
}

// LoggableHeaders keeps the allow-listed headers and drops anything that
// looks like a credential.
func LoggableHeaders(h http.Header) map[string]string {
	out := map[string]string{}
	for key, values := range h {
		lower := strings.ToLower(key)
		if sensitiveHeader.MatchString(lower) || !safeHeaders[lower] || len(values) == 0 {
			continue
		}
		out[lower] = values[0]
	}
	return out
}
