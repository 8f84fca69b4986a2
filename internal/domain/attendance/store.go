package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("attendance record not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanDay(row pgx.Row) (Day, error) {
	var d Day
	err := row.Scan(
		&d.ID, &d.Date, &d.MorningIn, &d.MorningOut, &d.EveningIn, &d.EveningOut,
		&d.LeaveType, &d.LeaveDuration, &d.WorkDone,
	)
	return d, err
}

const dayColumns = `
	id, day, morning_in, morning_out, evening_in, evening_out,
	COALESCE(leave_type, ''), COALESCE(leave_duration, ''), work_done`

// UpsertDay writes the record for d.Date, replacing any existing row.
func (s *Store) UpsertDay(ctx context.Context, d Day) (Day, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO maid_attendance (id, day, morning_in, morning_out, evening_in, evening_out, leave_type, leave_duration, work_done, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, NOW())
		ON CONFLICT (day) DO UPDATE SET
			morning_in = EXCLUDED.morning_in,
			morning_out = EXCLUDED.morning_out,
			evening_in = EXCLUDED.evening_in,
			evening_out = EXCLUDED.evening_out,
			leave_type = EXCLUDED.leave_type,
			leave_duration = EXCLUDED.leave_duration,
			work_done = EXCLUDED.work_done,
			updated_at = NOW()`,
		d.ID, d.Date, d.MorningIn, d.MorningOut, d.EveningIn, d.EveningOut,
		d.LeaveType, d.LeaveDuration, d.WorkDone)
	if err != nil {
		return Day{}, fmt.Errorf("upsert attendance day: %w", err)
	}
	return s.GetDay(ctx, d.Date)
}

func (s *Store) GetDay(ctx context.Context, day time.Time) (Day, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+dayColumns+` FROM maid_attendance WHERE day = $1`, day)
	d, err := scanDay(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Day{}, ErrNotFound
	}
	if err != nil {
		return Day{}, fmt.Errorf("get attendance day: %w", err)
	}
	return d, nil
}

// DaysBetween returns recorded days in [from, to], ordered by date.
func (s *Store) DaysBetween(ctx context.Context, from, to time.Time) ([]Day, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT`+dayColumns+`
		FROM maid_attendance
		WHERE day BETWEEN $1 AND $2
		ORDER BY day`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list attendance days: %w", err)
	}
	defer rows.Close()

	var out []Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance day: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListTasks returns the task catalog in display order, falling back to the
// built-in list when the table is empty.
func (s *Store) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT code, name, required_times, icon, position
		FROM task_catalog
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list task catalog: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.Code, &t.Name, &t.RequiredTimes, &t.Icon, &t.Position); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return DefaultTasks(), nil
	}
	return out, nil
}

// WeekChecksFor loads the completion slots for every catalog task in the
// given Monday-anchored week. Missing rows yield empty slots.
func (s *Store) WeekChecksFor(ctx context.Context, weekStart time.Time, tasks []Task) ([]WeekChecks, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT task_code, check_index, completed_on
		FROM week_task_checks
		WHERE week_start = $1`, weekStart)
	if err != nil {
		return nil, fmt.Errorf("list week checks: %w", err)
	}
	defer rows.Close()

	type slotKey struct {
		code  string
		index int
	}
	filled := map[slotKey]time.Time{}
	for rows.Next() {
		var (
			code      string
			index     int
			completed time.Time
		)
		if err := rows.Scan(&code, &index, &completed); err != nil {
			return nil, fmt.Errorf("scan week check: %w", err)
		}
		filled[slotKey{code, index}] = completed
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]WeekChecks, 0, len(tasks))
	for _, task := range tasks {
		wc := WeekChecks{
			WeekStart: weekStart,
			TaskCode:  task.Code,
			Slots:     make([]*time.Time, task.RequiredTimes),
		}
		for i := 0; i < task.RequiredTimes; i++ {
			if at, ok := filled[slotKey{task.Code, i}]; ok {
				t := at
				wc.Slots[i] = &t
			}
		}
		out = append(out, wc)
	}
	return out, nil
}

// SetCheck fills or clears one completion slot. A nil completedOn clears it.
func (s *Store) SetCheck(ctx context.Context, weekStart time.Time, taskCode string, checkIndex int, completedOn *time.Time) error {
	if completedOn == nil {
		_, err := s.pool.Exec(ctx, `
			DELETE FROM week_task_checks
			WHERE week_start = $1 AND task_code = $2 AND check_index = $3`,
			weekStart, taskCode, checkIndex)
		if err != nil {
			return fmt.Errorf("clear week check: %w", err)
		}
		return nil
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO week_task_checks (week_start, task_code, check_index, completed_on)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (week_start, task_code, check_index) DO UPDATE SET completed_on = EXCLUDED.completed_on`,
		weekStart, taskCode, checkIndex, *completedOn)
	if err != nil {
		return fmt.Errorf("set week check: %w", err)
	}
	return nil
}
