package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Priority orders tasks by urgency.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "none"
	}
}

// ParsePriority converts a token into a Priority. Unknown tokens are an
// error rather than a silent default, so boundary layers surface typos
// to the user instead of dropping them.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PriorityNone, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return PriorityNone, fmt.Errorf("unknown priority %q", s)
	}
}

// Recurrence governs automatic due-date advancement.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// ParseRecurrence converts a token into a Recurrence. Unknown tokens are
// an error.
func ParseRecurrence(s string) (Recurrence, error) {
	switch Recurrence(strings.ToLower(strings.TrimSpace(s))) {
	case "", RecurrenceNone:
		return RecurrenceNone, nil
	case RecurrenceDaily:
		return RecurrenceDaily, nil
	case RecurrenceWeekly:
		return RecurrenceWeekly, nil
	case RecurrenceMonthly:
		return RecurrenceMonthly, nil
	default:
		return RecurrenceNone, fmt.Errorf("unknown recurrence %q", s)
	}
}

// NormalizeTags lowercases, trims and deduplicates tags, preserving
// first-seen order. Empty tags are dropped. Returns an error if any tag
// exceeds TagMaxLen.
func NormalizeTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > TagMaxLen {
			return nil, fmt.Errorf("tag %q exceeds %d characters", tag, TagMaxLen)
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}
