package attendance

import (
	"errors"
	"fmt"
	"math"

	"hrconsole/internal/dates"
)

var (
	ErrInvalidClock   = errors.New("time fields must match 24-hour HH:MM")
	ErrUnknownLeave   = errors.New("unknown leave type or duration")
	ErrSlotOutOfRange = errors.New("check index outside the task's slot count")
)

func validLeave(leaveType, duration string) bool {
	if leaveType == "" && duration == "" {
		return true
	}
	typeOK := leaveType == LeaveMaid || leaveType == LeaveOffice
	durationOK := duration == LeaveFull || duration == LeaveMorning || duration == LeaveEvening
	return typeOK && durationOK
}

// Normalize validates a day's fields and clears any punch the leave marker
// overlaps: a full-day leave clears all four, a half-day leave clears its
// session's pair.
func Normalize(d Day) (Day, error) {
	if !validLeave(d.LeaveType, d.LeaveDuration) {
		return Day{}, ErrUnknownLeave
	}

	switch d.LeaveDuration {
	case LeaveFull:
		d.MorningIn, d.MorningOut, d.EveningIn, d.EveningOut = "", "", "", ""
	case LeaveMorning:
		d.MorningIn, d.MorningOut = "", ""
	case LeaveEvening:
		d.EveningIn, d.EveningOut = "", ""
	}

	for _, punch := range []string{d.MorningIn, d.MorningOut, d.EveningIn, d.EveningOut} {
		if punch != "" && !dates.ValidClock(punch) {
			return Day{}, fmt.Errorf("%w: %q", ErrInvalidClock, punch)
		}
	}
	return d, nil
}

// Status derives the day's attendance status from its punches and leave
// marker.
func (d Day) Status() string {
	if d.LeaveType != "" {
		if d.LeaveDuration == LeaveFull {
			return StatusLeave
		}
		return StatusHalfLeave
	}

	punches := 0
	for _, p := range []string{d.MorningIn, d.MorningOut, d.EveningIn, d.EveningOut} {
		if p != "" {
			punches++
		}
	}
	switch punches {
	case 4:
		return StatusComplete
	case 0:
		return StatusPending
	default:
		return StatusPartial
	}
}

// ValidateSlot checks a toggle target against the catalog: the task must
// exist and checkIndex must fall inside its slot count.
func ValidateSlot(tasks []Task, taskCode string, checkIndex int) error {
	for _, task := range tasks {
		if task.Code != taskCode {
			continue
		}
		if checkIndex < 0 || checkIndex >= task.RequiredTimes {
			return ErrSlotOutOfRange
		}
		return nil
	}
	return ErrNotFound
}

// CompletedCount is the number of filled slots.
func (w WeekChecks) CompletedCount() int {
	n := 0
	for _, slot := range w.Slots {
		if slot != nil {
			n++
		}
	}
	return n
}

// CompletionPercent computes the rounded percentage of required task
// repetitions actually completed. Over-completion of one task never
// compensates for another: each task contributes at most its required count.
func CompletionPercent(tasks []Task, completed map[string]int) int {
	totalRequired := 0
	totalDone := 0
	for _, task := range tasks {
		totalRequired += task.RequiredTimes
		done := completed[task.Code]
		if done > task.RequiredTimes {
			done = task.RequiredTimes
		}
		totalDone += done
	}
	if totalRequired == 0 {
		return 0
	}
	return int(math.Round(float64(totalDone) / float64(totalRequired) * 100))
}
