// Package dates centralizes the calendar arithmetic shared by the salary
// engine, the attendance tracker and the report generator, so week boundaries
// and working-day counts stay identical everywhere.
package dates

import (
	"math"
	"regexp"
	"time"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SundaysInMonth counts the Sundays falling inside the given month.
func SundaysInMonth(year int, month time.Month) int {
	count := 0
	last := DaysInMonth(year, month)
	for day := 1; day <= last; day++ {
		if time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday() == time.Sunday {
			count++
		}
	}
	return count
}

// WorkingDays returns the payable days of a month: all days except Sundays.
// Every real month has at least one non-Sunday day.
func WorkingDays(year int, month time.Month) int {
	return DaysInMonth(year, month) - SundaysInMonth(year, month)
}

// WeekStart returns the Monday of the week containing t, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeeksOverlappingMonth returns the Monday anchors of every week that shares
// at least one day with the given month, in order.
func WeeksOverlappingMonth(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(year, month, DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)

	var weeks []time.Time
	for anchor := WeekStart(first); !anchor.After(lastDay); anchor = anchor.AddDate(0, 0, 7) {
		weeks = append(weeks, anchor)
	}
	return weeks
}

// RoundHalf rounds to the nearest 0.5, halves away from zero.
func RoundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

// ValidClock reports whether s is a 24-hour HH:MM time. Both fields must be
// zero-padded: "9:5" is rejected, "09:05" is accepted.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// DayName returns the short weekday name for a date ("Mon", "Tue", ...).
func DayName(t time.Time) string {
	return t.Format("Mon")
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
