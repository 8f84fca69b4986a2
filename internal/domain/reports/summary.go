package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrconsole/internal/domain/attendance"
)

// Dashboard is the console landing-page summary.
type Dashboard struct {
	TotalEmployees     int `json:"totalEmployees"`
	ActiveEmployees    int `json:"activeEmployees"`
	PendingLeave       int `json:"pendingLeave"`
	PendingPermissions int `json:"pendingPermissions"`
	SalariesThisMonth  int `json:"salariesThisMonth"`
	QuotesThisMonth    int `json:"quotesThisMonth"`
	TaskCompletionPct  int `json:"taskCompletionPct"`
}

type Service struct {
	pool       *pgxpool.Pool
	attendance *attendance.Service
	now        func() time.Time
}

func NewService(pool *pgxpool.Pool, attendanceSvc *attendance.Service) *Service {
	return &Service{pool: pool, attendance: attendanceSvc, now: time.Now}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	now := s.now()
	var d Dashboard
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(1) FROM employees),
			(SELECT COUNT(1) FROM employees WHERE working_status = 'active'),
			(SELECT COUNT(1) FROM leave_requests WHERE management_status IS NULL),
			(SELECT COUNT(1) FROM permission_requests WHERE status = 'pending'),
			(SELECT COUNT(1) FROM salary_records WHERE year = $1 AND month = $2),
			(SELECT COUNT(1) FROM quotes WHERE date_trunc('month', quote_date) = date_trunc('month', $3::date))`,
		now.Year(), int(now.Month()), now).
		Scan(&d.TotalEmployees, &d.ActiveEmployees, &d.PendingLeave, &d.PendingPermissions, &d.SalariesThisMonth, &d.QuotesThisMonth)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard summary: %w", err)
	}

	checklist, err := s.attendance.Checklist(ctx, now.Year(), now.Month())
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard checklist: %w", err)
	}
	d.TaskCompletionPct = checklist.Percent
	return d, nil
}
