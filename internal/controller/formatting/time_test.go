package formatting

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"16:00", 16, 0, false},
		{" 09:05 ", 9, 5, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"12", 0, 0, true},
		{"ab:cd", 0, 0, true},
	}

	for _, tt := range tests {
		hour, minute, err := ParseTimeOfDay(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.input, err)
		}
		if hour != tt.hour || minute != tt.minute {
			t.Fatalf("%q: expected %02d:%02d, got %02d:%02d", tt.input, tt.hour, tt.minute, hour, minute)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseDateTime("04.03 12:30", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 3, 4, 12, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got, err = ParseDateTime("31.12.2027 09:00", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Year() != 2027 || got.Month() != 12 || got.Day() != 31 {
		t.Fatalf("expected explicit year honored, got %v", got)
	}

	if _, err := ParseDateTime("завтра", now); err == nil {
		t.Fatalf("expected error for free-form input")
	}
}

func TestPluralizeSessions(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{1, "занятие"},
		{2, "занятия"},
		{5, "занятий"},
		{11, "занятий"},
		{21, "занятие"},
		{104, "занятия"},
	}

	for _, tt := range tests {
		if got := PluralizeSessions(tt.count); got != tt.want {
			t.Fatalf("%d: expected %q, got %q", tt.count, tt.want, got)
		}
	}
}
