package domain

import (
	"strings"
	"time"
)

// ParseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date.
// Plain dates are interpreted as midnight in loc (UTC when loc is nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, InvalidInputf("date is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, InvalidInputf("invalid date %q, expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
