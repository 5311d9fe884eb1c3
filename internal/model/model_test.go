package model

import (
	"strings"
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Priority
		wantErr bool
	}{
		{"empty defaults to none", "", PriorityNone, false},
		{"none", "none", PriorityNone, false},
		{"low", "low", PriorityLow, false},
		{"medium", "medium", PriorityMedium, false},
		{"high", "HIGH", PriorityHigh, false},
		{"whitespace trimmed", "  low  ", PriorityLow, false},
		{"unknown token fails", "urgent", PriorityNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePriority(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Recurrence
		wantErr bool
	}{
		{"empty defaults to none", "", RecurrenceNone, false},
		{"daily", "daily", RecurrenceDaily, false},
		{"weekly", "Weekly", RecurrenceWeekly, false},
		{"monthly", "monthly", RecurrenceMonthly, false},
		{"unknown token fails", "yearly", RecurrenceNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecurrence(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRecurrence(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRecurrence(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	tags, err := NormalizeTags([]string{" Home ", "bills", "HOME", "", "bills"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"home", "bills"}
	if len(tags) != len(want) {
		t.Fatalf("got %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tag %d = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestNormalizeTagsRejectsLong(t *testing.T) {
	_, err := NormalizeTags([]string{strings.Repeat("x", TagMaxLen+1)})
	if err == nil {
		t.Fatal("expected error for an over-long tag")
	}
}

func TestNormalizeTagsCountsCharactersNotBytes(t *testing.T) {
	// Multibyte runes up to the limit are fine, one more is not.
	tags, err := NormalizeTags([]string{strings.Repeat("ё", TagMaxLen)})
	if err != nil {
		t.Fatalf("tag at the character limit rejected: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("got %v, want one tag", tags)
	}
	if _, err := NormalizeTags([]string{strings.Repeat("ё", TagMaxLen+1)}); err == nil {
		t.Fatal("expected error for a tag one character over the limit")
	}
}

func TestIsDateOnly(t *testing.T) {
	midnight := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	timed := time.Date(2025, time.March, 1, 0, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{"nil due date", nil, false},
		{"midnight is date-only", &midnight, true},
		{"timed is not", &timed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{DueDate: tt.due}
			if got := task.IsDateOnly(); got != tt.want {
				t.Errorf("IsDateOnly() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *time.Time
		wantErr bool
	}{
		{"empty is nil", "", nil, false},
		{"date only lands on midnight", "2025-11-30", timePtr(time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)), false},
		{"date with time", "2025-11-30 09:15", timePtr(time.Date(2025, time.November, 30, 9, 15, 0, 0, time.UTC)), false},
		{"garbage fails", "next tuesday", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueDate(tt.input, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDueDate(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseDueDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("ParseDueDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDueDate(t *testing.T) {
	dateOnly := time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)
	if got := FormatDueDate(dateOnly); got != "2025-11-30" {
		t.Errorf("FormatDueDate(midnight) = %q", got)
	}
	timed := time.Date(2025, time.November, 30, 9, 15, 0, 0, time.UTC)
	if got := FormatDueDate(timed); got != "2025-11-30 09:15" {
		t.Errorf("FormatDueDate(timed) = %q", got)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
