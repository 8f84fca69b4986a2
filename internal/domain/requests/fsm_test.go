package requests

import (
	"errors"
	"testing"
	"time"

	"hrconsole/internal/domain/auth"
)

func TestEffectiveStatus(t *testing.T) {
	var req LeaveRequest
	if got := req.EffectiveStatus(); got != StatusPendingTeamHead {
		t.Fatalf("expected pending_team_head, got %q", got)
	}

	req.TeamHead = &Decision{Status: OutcomeHold}
	if got := req.EffectiveStatus(); got != OutcomeHold {
		t.Fatalf("expected hold, got %q", got)
	}

	req.TeamHead = &Decision{Status: OutcomeApproved}
	if got := req.EffectiveStatus(); got != StatusPendingManagement {
		t.Fatalf("expected pending_management, got %q", got)
	}

	req.Management = &Decision{Status: OutcomeRejected}
	if got := req.EffectiveStatus(); got != OutcomeRejected {
		t.Fatalf("expected rejected, got %q", got)
	}
}

func TestProjectHeadMayOnlyReviseHold(t *testing.T) {
	now := time.Now()

	// First decision on an untouched request is allowed.
	var req LeaveRequest
	err := ApplyDecision(&req, auth.RoleProjectHead, Decision{Status: OutcomeApproved, Remark: "ok", DecidedBy: "ph1"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Once approved, the project head's hands are off.
	err = ApplyDecision(&req, auth.RoleProjectHead, Decision{Status: OutcomeRejected, Remark: "changed my mind", DecidedBy: "ph1"}, now)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	// A held request stays open to revision.
	held := LeaveRequest{TeamHead: &Decision{Status: OutcomeHold}}
	err = ApplyDecision(&held, auth.RoleProjectHead, Decision{Status: OutcomeApproved, Remark: "resolved", DecidedBy: "ph1"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if held.TeamHead.Status != OutcomeApproved {
		t.Fatalf("expected team head approval, got %q", held.TeamHead.Status)
	}
}

func TestAdminDecidesOnlyAfterTeamHead(t *testing.T) {
	now := time.Now()

	var untouched LeaveRequest
	err := ApplyDecision(&untouched, auth.RoleAdmin, Decision{Status: OutcomeApproved, Remark: "ok", DecidedBy: "mgmt"}, now)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState before team head acts, got %v", err)
	}

	// With team_head_status approved a project head is rejected but an admin
	// is permitted.
	reviewed := LeaveRequest{TeamHead: &Decision{Status: OutcomeApproved}}
	err = ApplyDecision(&reviewed, auth.RoleProjectHead, Decision{Status: OutcomeHold, Remark: "wait", DecidedBy: "ph1"}, now)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected project head to be blocked, got %v", err)
	}
	err = ApplyDecision(&reviewed, auth.RoleAdmin, Decision{Status: OutcomeApproved, Remark: "granted", DecidedBy: "mgmt"}, now)
	if err != nil {
		t.Fatalf("expected admin to be permitted, got %v", err)
	}
	if reviewed.EffectiveStatus() != OutcomeApproved {
		t.Fatalf("expected approved, got %q", reviewed.EffectiveStatus())
	}
}

func TestDecisionRequiresRemark(t *testing.T) {
	var req LeaveRequest
	err := ApplyDecision(&req, auth.RoleProjectHead, Decision{Status: OutcomeApproved}, time.Now())
	if !errors.Is(err, ErrRemarkRequired) {
		t.Fatalf("expected ErrRemarkRequired, got %v", err)
	}
}

func TestStaffCannotDecide(t *testing.T) {
	var req LeaveRequest
	err := ApplyDecision(&req, auth.RoleStaff, Decision{Status: OutcomeApproved, Remark: "ok"}, time.Now())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDecidePermission(t *testing.T) {
	req := PermissionRequest{Status: StatusPending}
	if err := DecidePermission(&req, OutcomeApproved, "mgmt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != OutcomeApproved || req.DecidedBy != "mgmt" {
		t.Fatalf("unexpected state: %+v", req)
	}

	// No second decision, and no hold outcome for permissions.
	if err := DecidePermission(&req, OutcomeRejected, "mgmt"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	fresh := PermissionRequest{Status: StatusPending}
	if err := DecidePermission(&fresh, OutcomeHold, "mgmt"); !errors.Is(err, ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
}
