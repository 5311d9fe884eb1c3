// Package recurrence computes the next occurrence of a due date under a
// recurrence rule. Pure date math, no dependencies.
package recurrence

import (
	"errors"
	"time"

	"tasktracker/internal/model"
)

// ErrNonRecurring is returned when NextOccurrence is called with
// RecurrenceNone. Callers are expected to have filtered non-recurring
// tasks already, so hitting this indicates a caller bug.
var ErrNonRecurring = errors.New("cannot calculate next occurrence for a non-recurring rule")

// NextOccurrence advances due by one application of rule, preserving the
// time of day.
//
// Monthly advancement targets the same calendar day in the following
// month and clamps to the last valid day when the target month is
// shorter (Jan 31 -> Feb 28, or Feb 29 in a leap year). The clamp is
// recomputed on every advance; no original anchor day is remembered.
// December rolls over into January of the next year.
func NextOccurrence(due time.Time, rule model.Recurrence) (time.Time, error) {
	switch rule {
	case model.RecurrenceDaily:
		return due.AddDate(0, 0, 1), nil
	case model.RecurrenceWeekly:
		return due.AddDate(0, 0, 7), nil
	case model.RecurrenceMonthly:
		return nextMonthly(due), nil
	default:
		return time.Time{}, ErrNonRecurring
	}
}

func nextMonthly(due time.Time) time.Time {
	year, month, day := due.Date()

	// First of the month after the target month, minus a day, gives the
	// target month's length via calendar arithmetic. No days-per-month
	// table, so leap years need no special case.
	firstOfTarget := time.Date(year, month, 1, 0, 0, 0, 0, due.Location()).AddDate(0, 1, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}

	hour, min, sec := due.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, due.Nanosecond(), due.Location())
}
