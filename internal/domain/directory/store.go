package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    e.id, e.employee_no, e.name, e.date_of_birth,
    COALESCE(e.gender, ''), COALESCE(e.blood_group, ''), COALESCE(e.marital_status, ''),
    COALESCE(e.phone, ''), COALESCE(e.email, ''), COALESCE(e.address, ''),
    e.employment_type, e.working_status,
    COALESCE(e.designation_id::text, ''), COALESCE(d.name, ''),
    e.join_date, e.intern_date, COALESCE(e.profile_image, ''),
    e.created_at, e.updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeNo, &emp.Name, &emp.DateOfBirth,
		&emp.Gender, &emp.BloodGroup, &emp.MaritalStatus,
		&emp.Phone, &emp.Email, &emp.Address,
		&emp.EmploymentType, &emp.WorkingStatus,
		&emp.DesignationID, &emp.Designation,
		&emp.JoinDate, &emp.InternDate, &emp.ProfileImage,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context, filter ListFilter, limit, offset int) ([]Employee, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.WorkingStatus != "" {
		args = append(args, filter.WorkingStatus)
		where += fmt.Sprintf(" AND e.working_status = $%d", len(args))
	}
	if filter.EmploymentType != "" {
		args = append(args, filter.EmploymentType)
		where += fmt.Sprintf(" AND e.employment_type = $%d", len(args))
	}
	if filter.DesignationID != "" {
		args = append(args, filter.DesignationID)
		where += fmt.Sprintf(" AND e.designation_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (e.name ILIKE $%d OR e.employee_no ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := "SELECT COUNT(1) FROM employees e" + where
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + employeeColumns + `
    FROM employees e
    LEFT JOIN designations d ON e.designation_id = d.id` + where
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY e.name LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+employeeColumns+`
    FROM employees e
    LEFT JOIN designations d ON e.designation_id = d.id
    WHERE e.id = $1
  `, employeeID)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}

	docs, err := s.ListDocuments(ctx, employeeID)
	if err != nil {
		return Employee{}, err
	}
	emp.Documents = docs
	return emp, nil
}

func (s *Store) EmployeeNoExists(ctx context.Context, employeeNo string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE employee_no = $1", employeeNo).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_no, name, date_of_birth, gender, blood_group, marital_status,
      phone, email, address, employment_type, working_status, designation_id,
      join_date, intern_date, profile_image)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    RETURNING id
  `,
		emp.EmployeeNo, emp.Name, emp.DateOfBirth, emp.Gender, emp.BloodGroup, emp.MaritalStatus,
		emp.Phone, emp.Email, emp.Address, emp.EmploymentType, emp.WorkingStatus, nullIfEmpty(emp.DesignationID),
		emp.JoinDate, emp.InternDate, emp.ProfileImage,
	).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicateID
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID string, emp Employee) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $1,
        date_of_birth = $2,
        gender = $3,
        blood_group = $4,
        marital_status = $5,
        phone = $6,
        email = $7,
        address = $8,
        employment_type = $9,
        working_status = $10,
        designation_id = $11,
        join_date = $12,
        intern_date = $13,
        profile_image = $14,
        updated_at = now()
    WHERE id = $15
  `,
		emp.Name, emp.DateOfBirth, emp.Gender, emp.BloodGroup, emp.MaritalStatus,
		emp.Phone, emp.Email, emp.Address, emp.EmploymentType, emp.WorkingStatus,
		nullIfEmpty(emp.DesignationID), emp.JoinDate, emp.InternDate, emp.ProfileImage, employeeID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
