package model

import (
	"fmt"
	"strings"
	"time"
)

// Accepted due-date input layouts. A bare date lands on midnight and is
// treated as date-only; a date with time is a timed due date.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// ParseDueDate parses either accepted due-date form into a single
// instant. Returns nil for an empty string.
func ParseDueDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateTimeLayout, s, loc); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid due date %q, expected %s or %s", s, dateLayout, dateTimeLayout)
}

// FormatDueDate renders a due date in the shortest accepted form.
func FormatDueDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}
