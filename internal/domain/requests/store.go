package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("request not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListFilter narrows request listings. A zero filter returns everything.
type ListFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

const leaveColumns = `
	l.id, l.employee_id, e.name, l.start_date, l.end_date, l.duration, l.days, l.reason,
	l.team_head_status, l.team_head_remark, l.team_head_decided_by, l.team_head_designation, l.team_head_decided_at,
	l.management_status, l.management_remark, l.management_decided_by, l.management_designation, l.management_decided_at,
	l.created_at`

func scanLeave(row pgx.Row) (LeaveRequest, error) {
	var (
		req LeaveRequest

		thStatus, thRemark, thBy, thDesig *string
		thAt                              *time.Time
		mgStatus, mgRemark, mgBy, mgDesig *string
		mgAt                              *time.Time
	)
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.EmployeeName, &req.StartDate, &req.EndDate,
		&req.Duration, &req.Days, &req.Reason,
		&thStatus, &thRemark, &thBy, &thDesig, &thAt,
		&mgStatus, &mgRemark, &mgBy, &mgDesig, &mgAt,
		&req.CreatedAt,
	)
	if err != nil {
		return LeaveRequest{}, err
	}
	req.TeamHead = buildDecision(thStatus, thRemark, thBy, thDesig, thAt)
	req.Management = buildDecision(mgStatus, mgRemark, mgBy, mgDesig, mgAt)
	return req, nil
}

func buildDecision(status, remark, decidedBy, designation *string, decidedAt *time.Time) *Decision {
	if status == nil {
		return nil
	}
	d := Decision{Status: *status}
	if remark != nil {
		d.Remark = *remark
	}
	if decidedBy != nil {
		d.DecidedBy = *decidedBy
	}
	if designation != nil {
		d.Designation = *designation
	}
	if decidedAt != nil {
		d.DecidedAt = *decidedAt
	}
	return &d
}

func (s *Store) ListLeave(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	query := `SELECT` + leaveColumns + `
		FROM leave_requests l
		JOIN employees e ON e.id = l.employee_id
		WHERE 1=1`
	args := []any{}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND l.employee_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND l.end_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND l.start_date <= $%d", len(args))
	}
	query += " ORDER BY l.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	var out []LeaveRequest
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) GetLeave(ctx context.Context, id string) (LeaveRequest, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+leaveColumns+`
		FROM leave_requests l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.id = $1`, id)
	req, err := scanLeave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("get leave request: %w", err)
	}
	return req, nil
}

func (s *Store) CreateLeave(ctx context.Context, req LeaveRequest) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO leave_requests (id, employee_id, start_date, end_date, duration, days, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.EmployeeID, req.StartDate, req.EndDate, req.Duration, req.Days, req.Reason, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return nil
}

// SaveDecision persists one stage's columns of a leave request.
func (s *Store) SaveDecision(ctx context.Context, id, stage string, d Decision) error {
	var query string
	switch stage {
	case StageTeamHead:
		query = `UPDATE leave_requests SET
			team_head_status = $2, team_head_remark = $3, team_head_decided_by = $4,
			team_head_designation = $5, team_head_decided_at = $6
			WHERE id = $1`
	case StageManagement:
		query = `UPDATE leave_requests SET
			management_status = $2, management_remark = $3, management_decided_by = $4,
			management_designation = $5, management_decided_at = $6
			WHERE id = $1`
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}

	tag, err := s.pool.Exec(ctx, query, id, d.Status, d.Remark, d.DecidedBy, d.Designation, d.DecidedAt)
	if err != nil {
		return fmt.Errorf("save %s decision: %w", stage, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLeave(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApprovedLeaveDays sums approved leave days for an employee whose requests
// overlap the given month. Used by the salary engine's paid-leave check.
func (s *Store) ApprovedLeaveDays(ctx context.Context, employeeID string, monthStart, monthEnd time.Time) (float64, error) {
	var days float64
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(days), 0)
		FROM leave_requests
		WHERE employee_id = $1
		  AND management_status = $2
		  AND start_date <= $4 AND end_date >= $3`,
		employeeID, OutcomeApproved, monthStart, monthEnd).Scan(&days)
	if err != nil {
		return 0, fmt.Errorf("sum approved leave days: %w", err)
	}
	return days, nil
}

const permissionColumns = `
	p.id, p.employee_id, e.name, p.request_date, p.from_time, p.to_time, p.minutes,
	p.reason, p.status, p.decided_by, p.created_at`

func scanPermission(row pgx.Row) (PermissionRequest, error) {
	var (
		req       PermissionRequest
		decidedBy *string
	)
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.EmployeeName, &req.Date, &req.FromTime, &req.ToTime,
		&req.Minutes, &req.Reason, &req.Status, &decidedBy, &req.CreatedAt,
	)
	if err != nil {
		return PermissionRequest{}, err
	}
	if decidedBy != nil {
		req.DecidedBy = *decidedBy
	}
	return req, nil
}

func (s *Store) ListPermissions(ctx context.Context, filter ListFilter) ([]PermissionRequest, error) {
	query := `SELECT` + permissionColumns + `
		FROM permission_requests p
		JOIN employees e ON e.id = p.employee_id
		WHERE 1=1`
	args := []any{}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND p.employee_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND p.request_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND p.request_date <= $%d", len(args))
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list permission requests: %w", err)
	}
	defer rows.Close()

	var out []PermissionRequest
	for rows.Next() {
		req, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan permission request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) GetPermission(ctx context.Context, id string) (PermissionRequest, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+permissionColumns+`
		FROM permission_requests p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1`, id)
	req, err := scanPermission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PermissionRequest{}, ErrNotFound
	}
	if err != nil {
		return PermissionRequest{}, fmt.Errorf("get permission request: %w", err)
	}
	return req, nil
}

func (s *Store) CreatePermission(ctx context.Context, req PermissionRequest) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO permission_requests (id, employee_id, request_date, from_time, to_time, minutes, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.ID, req.EmployeeID, req.Date, req.FromTime, req.ToTime, req.Minutes, req.Reason, req.Status, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("create permission request: %w", err)
	}
	return nil
}

func (s *Store) UpdatePermissionStatus(ctx context.Context, id, status, decidedBy string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE permission_requests SET status = $2, decided_by = $3 WHERE id = $1`,
		id, status, decidedBy)
	if err != nil {
		return fmt.Errorf("update permission request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeletePermission(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM permission_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete permission request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
