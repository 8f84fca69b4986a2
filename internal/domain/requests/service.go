package requests

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hrconsole/internal/domain/auth"
)

var ErrValidation = errors.New("invalid request")

// Notifier receives workflow events. Failures are logged, never surfaced.
type Notifier interface {
	RequestDecided(ctx context.Context, employeeID, kind, status, remark string)
}

type Service struct {
	store    *Store
	notifier Notifier
	now      func() time.Time
}

func NewService(store *Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier, now: time.Now}
}

type CreateLeaveInput struct {
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Duration   string
	Reason     string
}

func (s *Service) CreateLeave(ctx context.Context, in CreateLeaveInput) (LeaveRequest, error) {
	if in.Reason == "" {
		return LeaveRequest{}, ErrValidation
	}
	days, err := CalculateDays(in.StartDate, in.EndDate, in.Duration)
	if err != nil {
		return LeaveRequest{}, ErrValidation
	}
	duration := in.Duration
	if duration == "" {
		duration = DurationFull
	}

	req := LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: in.EmployeeID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Duration:   duration,
		Days:       days,
		Reason:     in.Reason,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreateLeave(ctx, req); err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

// visibleFilter scopes listings: staff see only their own requests.
func visibleFilter(user auth.UserContext, filter ListFilter) ListFilter {
	if user.Role == auth.RoleStaff {
		filter.EmployeeID = user.EmployeeID
	}
	return filter
}

func (s *Service) ListLeave(ctx context.Context, user auth.UserContext, filter ListFilter) ([]LeaveRequest, error) {
	return s.store.ListLeave(ctx, visibleFilter(user, filter))
}

// DecideLeave applies the actor's stage decision and persists it. The stage
// gates live in ApplyDecision; this re-reads the stored request so clients
// acting on stale state get the authoritative answer.
func (s *Service) DecideLeave(ctx context.Context, user auth.UserContext, id, outcome, remark string) (LeaveRequest, error) {
	req, err := s.store.GetLeave(ctx, id)
	if err != nil {
		return LeaveRequest{}, err
	}

	decision := Decision{
		Status:      outcome,
		Remark:      remark,
		DecidedBy:   user.Name,
		Designation: user.Designation,
	}
	if err := ApplyDecision(&req, user.Role, decision, s.now()); err != nil {
		return LeaveRequest{}, err
	}

	stage, _ := DecisionStage(user.Role)
	var saved *Decision
	if stage == StageTeamHead {
		saved = req.TeamHead
	} else {
		saved = req.Management
	}
	if err := s.store.SaveDecision(ctx, id, stage, *saved); err != nil {
		return LeaveRequest{}, err
	}

	s.notify(ctx, req.EmployeeID, "leave", req.EffectiveStatus(), remark)
	return req, nil
}

func (s *Service) DeleteLeave(ctx context.Context, user auth.UserContext, id string) error {
	req, err := s.store.GetLeave(ctx, id)
	if err != nil {
		return err
	}
	// Staff may withdraw their own request only while nobody has acted on it.
	if user.Role == auth.RoleStaff {
		if req.EmployeeID != user.EmployeeID || req.TeamHead != nil || req.Management != nil {
			return ErrForbidden
		}
	}
	return s.store.DeleteLeave(ctx, id)
}

type CreatePermissionInput struct {
	EmployeeID string
	Date       time.Time
	FromTime   string
	ToTime     string
	Reason     string
}

func (s *Service) CreatePermission(ctx context.Context, in CreatePermissionInput) (PermissionRequest, error) {
	if in.Reason == "" {
		return PermissionRequest{}, ErrValidation
	}
	minutes, err := PermissionMinutes(in.FromTime, in.ToTime)
	if err != nil {
		return PermissionRequest{}, ErrValidation
	}

	req := PermissionRequest{
		ID:         uuid.NewString(),
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		FromTime:   in.FromTime,
		ToTime:     in.ToTime,
		Minutes:    minutes,
		Reason:     in.Reason,
		Status:     StatusPending,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreatePermission(ctx, req); err != nil {
		return PermissionRequest{}, err
	}
	return req, nil
}

func (s *Service) ListPermissions(ctx context.Context, user auth.UserContext, filter ListFilter) ([]PermissionRequest, error) {
	return s.store.ListPermissions(ctx, visibleFilter(user, filter))
}

func (s *Service) DecidePermissionRequest(ctx context.Context, user auth.UserContext, id, outcome string) (PermissionRequest, error) {
	if _, err := DecisionStage(user.Role); err != nil {
		return PermissionRequest{}, err
	}

	req, err := s.store.GetPermission(ctx, id)
	if err != nil {
		return PermissionRequest{}, err
	}
	if err := DecidePermission(&req, outcome, user.Name); err != nil {
		return PermissionRequest{}, err
	}
	if err := s.store.UpdatePermissionStatus(ctx, id, req.Status, req.DecidedBy); err != nil {
		return PermissionRequest{}, err
	}

	s.notify(ctx, req.EmployeeID, "permission", req.Status, "")
	return req, nil
}

func (s *Service) DeletePermission(ctx context.Context, user auth.UserContext, id string) error {
	req, err := s.store.GetPermission(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == auth.RoleStaff {
		if req.EmployeeID != user.EmployeeID || req.Status != StatusPending {
			return ErrForbidden
		}
	}
	return s.store.DeletePermission(ctx, id)
}

func (s *Service) notify(ctx context.Context, employeeID, kind, status, remark string) {
	if s.notifier == nil {
		return
	}
	s.notifier.RequestDecided(ctx, employeeID, kind, status, remark)
}
