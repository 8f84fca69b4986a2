package reports

import (
	"bytes"
	"testing"
	"time"

	"hrconsole/internal/domain/attendance"
)

func TestAttendanceMonthPDF(t *testing.T) {
	days := []attendance.Day{
		{
			Date:       time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
			MorningIn:  "08:00",
			MorningOut: "12:00",
			EveningIn:  "14:00",
			EveningOut: "18:00",
			WorkDone:   "Full cleaning round",
		},
		{
			Date:      time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			MorningIn: "08:10",
		},
		{
			Date:          time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
			LeaveType:     attendance.LeaveMaid,
			LeaveDuration: attendance.LeaveFull,
		},
	}

	out, err := AttendanceMonthPDF(2024, time.March, days, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF, starts with %q", out[:4])
	}
}

func TestAttendanceMonthPDFMissingLogo(t *testing.T) {
	out, err := AttendanceMonthPDF(2024, time.March, nil, "/nonexistent/logo.png")
	if err != nil {
		t.Fatalf("missing logo must not fail the render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("expected a PDF even without the logo")
	}
}
