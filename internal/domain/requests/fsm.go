package requests

import (
	"errors"
	"time"

	"hrconsole/internal/domain/auth"
)

var (
	ErrForbidden      = errors.New("role may not decide this stage")
	ErrInvalidState   = errors.New("stage not open for a decision")
	ErrRemarkRequired = errors.New("a remark is required")
	ErrUnknownOutcome = errors.New("unknown decision outcome")
)

// decisionStages maps a console role to the approval stage it owns.
var decisionStages = map[string]string{
	auth.RoleProjectHead: StageTeamHead,
	auth.RoleAdmin:       StageManagement,
}

// DecisionStage returns the stage the given role decides.
func DecisionStage(role string) (string, error) {
	stage, ok := decisionStages[role]
	if !ok {
		return "", ErrForbidden
	}
	return stage, nil
}

func validOutcome(outcome string) bool {
	return outcome == OutcomeApproved || outcome == OutcomeRejected || outcome == OutcomeHold
}

// CanDecide enforces the stage gates:
//   - a project head decides the team-head stage only while it is unset or hold;
//   - management decides its stage only once the team-head stage is set.
func CanDecide(role string, req LeaveRequest) error {
	stage, err := DecisionStage(role)
	if err != nil {
		return err
	}
	switch stage {
	case StageTeamHead:
		if req.TeamHead != nil && req.TeamHead.Status != OutcomeHold {
			return ErrInvalidState
		}
	case StageManagement:
		if req.TeamHead == nil || !validOutcome(req.TeamHead.Status) {
			return ErrInvalidState
		}
	}
	return nil
}

func (d Decision) normalized(now time.Time) Decision {
	d.DecidedAt = now
	return d
}

// ApplyDecision validates and records a decision on the stage owned by the
// actor's role, mutating req in place.
func ApplyDecision(req *LeaveRequest, role string, decision Decision, now time.Time) error {
	if !validOutcome(decision.Status) {
		return ErrUnknownOutcome
	}
	if decision.Remark == "" {
		return ErrRemarkRequired
	}
	if err := CanDecide(role, *req); err != nil {
		return err
	}

	stage, _ := DecisionStage(role)
	applied := decision.normalized(now)
	switch stage {
	case StageTeamHead:
		req.TeamHead = &applied
	case StageManagement:
		req.Management = &applied
	}
	return nil
}

// DecidePermission applies the single-stage permission request transition.
// No remark is required and only pending requests can be decided.
func DecidePermission(req *PermissionRequest, outcome, decidedBy string) error {
	if outcome != OutcomeApproved && outcome != OutcomeRejected {
		return ErrUnknownOutcome
	}
	if req.Status != StatusPending {
		return ErrInvalidState
	}
	req.Status = outcome
	req.DecidedBy = decidedBy
	return nil
}
