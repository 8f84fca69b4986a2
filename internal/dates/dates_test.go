package dates

import (
	"testing"
	"time"
)

func TestWorkingDays(t *testing.T) {
	cases := []struct {
		year    int
		month   time.Month
		days    int
		sundays int
		working int
	}{
		{2024, time.January, 31, 4, 27},
		{2024, time.February, 29, 4, 25},
		{2024, time.March, 31, 5, 26},
		{2024, time.December, 31, 5, 26},
		{2025, time.June, 30, 5, 25},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.days {
			t.Fatalf("%v %d: expected %d days, got %d", tc.month, tc.year, tc.days, got)
		}
		if got := SundaysInMonth(tc.year, tc.month); got != tc.sundays {
			t.Fatalf("%v %d: expected %d sundays, got %d", tc.month, tc.year, tc.sundays, got)
		}
		if got := WorkingDays(tc.year, tc.month); got != tc.working {
			t.Fatalf("%v %d: expected %d working days, got %d", tc.month, tc.year, tc.working, got)
		}
	}
}

func TestWeekStartIsMonday(t *testing.T) {
	// 2024-01-17 is a Wednesday; its week starts Monday the 15th.
	wednesday := time.Date(2024, time.January, 17, 15, 30, 0, 0, time.UTC)
	start := WeekStart(wednesday)
	if start.Weekday() != time.Monday {
		t.Fatalf("expected Monday, got %v", start.Weekday())
	}
	if start.Day() != 15 {
		t.Fatalf("expected the 15th, got %d", start.Day())
	}

	// A Monday anchors its own week; a Sunday belongs to the prior Monday.
	monday := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(monday); !got.Equal(monday) {
		t.Fatalf("expected monday to anchor itself, got %v", got)
	}
	sunday := time.Date(2024, time.January, 21, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(sunday); got.Day() != 15 {
		t.Fatalf("expected sunday to map to the 15th, got %v", got)
	}
}

func TestWeeksOverlappingMonth(t *testing.T) {
	// January 2024: Jan 1 is a Monday, Jan 31 a Wednesday -> 5 weeks.
	weeks := WeeksOverlappingMonth(2024, time.January)
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}
	if !weeks[0].Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected first anchor Jan 1, got %v", weeks[0])
	}
	if !weeks[4].Equal(time.Date(2024, time.January, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected last anchor Jan 29, got %v", weeks[4])
	}

	// March 2024 starts on a Friday, so its first anchor is in February.
	weeks = WeeksOverlappingMonth(2024, time.March)
	if weeks[0].Month() != time.February || weeks[0].Day() != 26 {
		t.Fatalf("expected first anchor Feb 26, got %v", weeks[0])
	}
}

func TestRoundHalf(t *testing.T) {
	cases := map[float64]float64{
		2.3:  2.5,
		2.2:  2.0,
		2.25: 2.5,
		0:    0,
		1.74: 1.5,
		1.76: 2.0,
	}
	for in, want := range cases {
		if got := RoundHalf(in); got != want {
			t.Fatalf("RoundHalf(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestValidClock(t *testing.T) {
	valid := []string{"00:00", "09:05", "23:59", "12:30"}
	invalid := []string{"25:00", "9:5", "24:00", "12:60", "", "12-30", "9:55"}
	for _, s := range valid {
		if !ValidClock(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if ValidClock(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
