package requests

import (
	"errors"
	"time"
)

// CalculateDays returns the leave day count for a request. Full-day requests
// count inclusive calendar days; half-day requests must cover a single day
// and count 0.5.
func CalculateDays(start, end time.Time, duration string) (float64, error) {
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	days := end.Sub(start).Hours()/24 + 1

	switch duration {
	case DurationFull, "":
		return days, nil
	case DurationHalfAM, DurationHalfPM:
		if !start.Equal(end) {
			return 0, errors.New("half-day leave must cover a single day")
		}
		return 0.5, nil
	default:
		return 0, errors.New("unknown duration")
	}
}

// PermissionMinutes derives the span between two HH:MM clock values.
func PermissionMinutes(fromTime, toTime string) (int, error) {
	from, err := time.Parse("15:04", fromTime)
	if err != nil {
		return 0, errors.New("invalid from time")
	}
	to, err := time.Parse("15:04", toTime)
	if err != nil {
		return 0, errors.New("invalid to time")
	}
	minutes := int(to.Sub(from).Minutes())
	if minutes <= 0 {
		return 0, errors.New("to time must be after from time")
	}
	return minutes, nil
}
