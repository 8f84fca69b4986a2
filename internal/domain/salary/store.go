package salary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("salary record not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const recordColumns = `
	s.id, s.employee_id, e.name, COALESCE(d.name, ''), s.year, s.month,
	s.basic_salary, s.total_leave_days, s.paid_leave_days,
	s.incentive, s.bonus, s.medical, s.other_allowance, s.total_salary, s.updated_at`

const recordJoins = `
	FROM salary_records s
	JOIN employees e ON e.id = s.employee_id
	LEFT JOIN designations d ON d.id = e.designation_id`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeName, &r.Designation, &r.Year, &r.Month,
		&r.BasicSalary, &r.TotalLeaveDays, &r.PaidLeaveDays,
		&r.Incentive, &r.Bonus, &r.Medical, &r.OtherAllowance, &r.TotalSalary, &r.UpdatedAt,
	)
	return r, err
}

// Upsert writes the record keyed by (employee, year, month).
func (s *Store) Upsert(ctx context.Context, r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO salary_records (id, employee_id, year, month, basic_salary, total_leave_days, paid_leave_days,
			incentive, bonus, medical, other_allowance, total_salary, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (employee_id, year, month) DO UPDATE SET
			basic_salary = EXCLUDED.basic_salary,
			total_leave_days = EXCLUDED.total_leave_days,
			paid_leave_days = EXCLUDED.paid_leave_days,
			incentive = EXCLUDED.incentive,
			bonus = EXCLUDED.bonus,
			medical = EXCLUDED.medical,
			other_allowance = EXCLUDED.other_allowance,
			total_salary = EXCLUDED.total_salary,
			updated_at = NOW()`,
		r.ID, r.EmployeeID, r.Year, r.Month, r.BasicSalary, r.TotalLeaveDays, r.PaidLeaveDays,
		r.Incentive, r.Bonus, r.Medical, r.OtherAllowance, r.TotalSalary)
	if err != nil {
		return Record{}, fmt.Errorf("upsert salary record: %w", err)
	}
	return s.Get(ctx, r.EmployeeID, r.Year, r.Month)
}

func (s *Store) Get(ctx context.Context, employeeID string, year, month int) (Record, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+recordColumns+recordJoins+`
		WHERE s.employee_id = $1 AND s.year = $2 AND s.month = $3`,
		employeeID, year, month)
	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get salary record: %w", err)
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (Record, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+recordColumns+recordJoins+` WHERE s.id = $1`, id)
	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get salary record: %w", err)
	}
	return r, nil
}

// ListMonth returns every employee's record for a month, name-ordered.
func (s *Store) ListMonth(ctx context.Context, year, month int) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT`+recordColumns+recordJoins+`
		WHERE s.year = $1 AND s.month = $2
		ORDER BY e.name`, year, month)
	if err != nil {
		return nil, fmt.Errorf("list salary records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan salary record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM salary_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete salary record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
