package attendance

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeClearsOverlappingSessions(t *testing.T) {
	tests := []struct {
		name string
		in   Day
		want Day
	}{
		{
			name: "full leave clears all punches",
			in:   Day{LeaveType: LeaveMaid, LeaveDuration: LeaveFull, MorningIn: "08:00", EveningOut: "18:00"},
			want: Day{LeaveType: LeaveMaid, LeaveDuration: LeaveFull},
		},
		{
			name: "morning leave clears only the morning session",
			in:   Day{LeaveType: LeaveOffice, LeaveDuration: LeaveMorning, MorningIn: "08:00", MorningOut: "12:00", EveningIn: "14:00", EveningOut: "18:00"},
			want: Day{LeaveType: LeaveOffice, LeaveDuration: LeaveMorning, EveningIn: "14:00", EveningOut: "18:00"},
		},
		{
			name: "evening leave clears only the evening session",
			in:   Day{LeaveType: LeaveMaid, LeaveDuration: LeaveEvening, MorningIn: "08:00", MorningOut: "12:00", EveningIn: "14:00"},
			want: Day{LeaveType: LeaveMaid, LeaveDuration: LeaveEvening, MorningIn: "08:00", MorningOut: "12:00"},
		},
		{
			name: "no leave keeps punches",
			in:   Day{MorningIn: "08:00", MorningOut: "12:00"},
			want: Day{MorningIn: "08:00", MorningOut: "12:00"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNormalizeRejectsBadClock(t *testing.T) {
	for _, bad := range []string{"25:00", "9:5", "0800", "24:00"} {
		_, err := Normalize(Day{MorningIn: bad})
		if !errors.Is(err, ErrInvalidClock) {
			t.Fatalf("punch %q: got %v, want ErrInvalidClock", bad, err)
		}
	}
	for _, good := range []string{"09:05", "23:59", "00:00"} {
		if _, err := Normalize(Day{MorningIn: good}); err != nil {
			t.Fatalf("punch %q: unexpected error %v", good, err)
		}
	}
}

func TestNormalizeRejectsUnknownLeave(t *testing.T) {
	if _, err := Normalize(Day{LeaveType: "holiday", LeaveDuration: LeaveFull}); !errors.Is(err, ErrUnknownLeave) {
		t.Fatalf("got %v, want ErrUnknownLeave", err)
	}
	if _, err := Normalize(Day{LeaveType: LeaveMaid}); !errors.Is(err, ErrUnknownLeave) {
		t.Fatalf("got %v, want ErrUnknownLeave", err)
	}
}

func TestDayStatus(t *testing.T) {
	tests := []struct {
		name string
		day  Day
		want string
	}{
		{"all punches", Day{MorningIn: "08:00", MorningOut: "12:00", EveningIn: "14:00", EveningOut: "18:00"}, StatusComplete},
		{"some punches", Day{MorningIn: "08:00"}, StatusPartial},
		{"no punches", Day{}, StatusPending},
		{"full leave", Day{LeaveType: LeaveMaid, LeaveDuration: LeaveFull}, StatusLeave},
		{"half leave", Day{LeaveType: LeaveOffice, LeaveDuration: LeaveMorning, EveningIn: "14:00"}, StatusHalfLeave},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.day.Status(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCompletionPercent(t *testing.T) {
	tasks := []Task{
		{Code: "a", RequiredTimes: 2},
		{Code: "b", RequiredTimes: 1},
	}

	if got := CompletionPercent(tasks, map[string]int{"a": 1, "b": 1}); got != 67 {
		t.Fatalf("got %d, want 67", got)
	}
	if got := CompletionPercent(tasks, map[string]int{"a": 2, "b": 1}); got != 100 {
		t.Fatalf("got %d, want 100", got)
	}
	if got := CompletionPercent(tasks, nil); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	// Extra completions on one task never push the total past its share.
	if got := CompletionPercent(tasks, map[string]int{"a": 5}); got != 67 {
		t.Fatalf("got %d, want 67", got)
	}
	if got := CompletionPercent(nil, nil); got != 0 {
		t.Fatalf("empty catalog: got %d, want 0", got)
	}
}

func TestValidateSlot(t *testing.T) {
	tasks := []Task{
		{Code: "sweep", RequiredTimes: 6},
		{Code: "fridge", RequiredTimes: 1},
	}

	tests := []struct {
		name       string
		taskCode   string
		checkIndex int
		wantErr    error
	}{
		{"first slot", "sweep", 0, nil},
		{"last slot", "sweep", 5, nil},
		{"index equals required times", "sweep", 6, ErrSlotOutOfRange},
		{"negative index", "sweep", -1, ErrSlotOutOfRange},
		{"single-slot task past end", "fridge", 1, ErrSlotOutOfRange},
		{"unknown task", "laundry", 0, ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSlot(tasks, tc.taskCode, tc.checkIndex)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestWeekChecksCompletedCount(t *testing.T) {
	now := time.Now()
	w := WeekChecks{Slots: []*time.Time{&now, nil, &now}}
	if got := w.CompletedCount(); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}
