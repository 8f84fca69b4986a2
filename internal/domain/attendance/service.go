package attendance

import (
	"context"
	"time"

	"hrconsole/internal/dates"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// SaveDay validates, normalizes and persists one day's record.
func (s *Service) SaveDay(ctx context.Context, d Day) (Day, error) {
	normalized, err := Normalize(d)
	if err != nil {
		return Day{}, err
	}
	return s.store.UpsertDay(ctx, normalized)
}

// WeekDay pairs a calendar date with its record, present or not.
type WeekDay struct {
	Date   time.Time `json:"date"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
	Day    *Day      `json:"record,omitempty"`
}

// Week returns the Mon-Sat grid for the week containing anchor. Days without
// a stored record appear with status pending and no record.
func (s *Service) Week(ctx context.Context, anchor time.Time) ([]WeekDay, error) {
	start := dates.WeekStart(anchor)
	end := start.AddDate(0, 0, 5)

	stored, err := s.store.DaysBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]Day, len(stored))
	for _, d := range stored {
		byDate[d.Date.Format("2006-01-02")] = d
	}

	out := make([]WeekDay, 0, 6)
	for i := 0; i < 6; i++ {
		date := start.AddDate(0, 0, i)
		wd := WeekDay{Date: date, Name: dates.DayName(date), Status: StatusPending}
		if d, ok := byDate[date.Format("2006-01-02")]; ok {
			day := d
			wd.Day = &day
			wd.Status = day.Status()
		}
		out = append(out, wd)
	}
	return out, nil
}

// WeekChecklist is one week's tasks with their slots and completion figure.
type WeekChecklist struct {
	WeekStart time.Time    `json:"weekStart"`
	Checks    []WeekChecks `json:"checks"`
	Percent   int          `json:"percent"`
}

// MonthChecklist groups every Monday-anchored week overlapping the month.
type MonthChecklist struct {
	Tasks   []Task          `json:"tasks"`
	Weeks   []WeekChecklist `json:"weeks"`
	Percent int             `json:"percent"`
}

func (s *Service) Checklist(ctx context.Context, year int, month time.Month) (MonthChecklist, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return MonthChecklist{}, err
	}

	out := MonthChecklist{Tasks: tasks}
	monthDone := map[string]int{}
	monthTasks := []Task{}

	for _, weekStart := range dates.WeeksOverlappingMonth(year, month) {
		checks, err := s.store.WeekChecksFor(ctx, weekStart, tasks)
		if err != nil {
			return MonthChecklist{}, err
		}

		weekDone := map[string]int{}
		for _, wc := range checks {
			weekDone[wc.TaskCode] = wc.CompletedCount()
		}
		out.Weeks = append(out.Weeks, WeekChecklist{
			WeekStart: weekStart,
			Checks:    checks,
			Percent:   CompletionPercent(tasks, weekDone),
		})

		// Month-level totals treat each week x task as its own requirement.
		for _, task := range tasks {
			key := weekStart.Format("2006-01-02") + "/" + task.Code
			monthTasks = append(monthTasks, Task{Code: key, RequiredTimes: task.RequiredTimes})
			monthDone[key] = weekDone[task.Code]
		}
	}

	out.Percent = CompletionPercent(monthTasks, monthDone)
	return out, nil
}

// ToggleCheck fills or clears one slot after bounds-checking it against the
// task catalog.
func (s *Service) ToggleCheck(ctx context.Context, weekStart time.Time, taskCode string, checkIndex int, completedOn *time.Time) error {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return err
	}
	if err := ValidateSlot(tasks, taskCode, checkIndex); err != nil {
		return err
	}
	return s.store.SetCheck(ctx, dates.WeekStart(weekStart), taskCode, checkIndex, completedOn)
}

// MonthDays returns the stored records for a month, for report export.
func (s *Service) MonthDays(ctx context.Context, year int, month time.Month) ([]Day, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return s.store.DaysBetween(ctx, first, last)
}

// Tasks exposes the catalog.
func (s *Service) Tasks(ctx context.Context) ([]Task, error) {
	return s.store.ListTasks(ctx)
}
