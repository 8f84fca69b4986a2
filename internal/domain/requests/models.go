package requests

import "time"

const (
	StageTeamHead   = "team_head"
	StageManagement = "management"

	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
	OutcomeHold     = "hold"

	StatusPending           = "pending"
	StatusPendingTeamHead   = "pending_team_head"
	StatusPendingManagement = "pending_management"

	DurationFull   = "full"
	DurationHalfAM = "half_am"
	DurationHalfPM = "half_pm"
)

// Decision is one stage's disposition of a leave request.
type Decision struct {
	Status      string    `json:"status"`
	Remark      string    `json:"remark"`
	DecidedBy   string    `json:"decidedBy"`
	Designation string    `json:"designation"`
	DecidedAt   time.Time `json:"decidedAt"`
}

type LeaveRequest struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Duration     string    `json:"duration"`
	Days         float64   `json:"days"`
	Reason       string    `json:"reason"`
	TeamHead     *Decision `json:"teamHead,omitempty"`
	Management   *Decision `json:"management,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EffectiveStatus is management's disposition when present, the team-head
// stage otherwise, and pending-team-head before anyone has acted.
func (r LeaveRequest) EffectiveStatus() string {
	if r.Management != nil {
		return r.Management.Status
	}
	if r.TeamHead != nil {
		if r.TeamHead.Status == OutcomeApproved || r.TeamHead.Status == OutcomeRejected {
			return StatusPendingManagement
		}
		return r.TeamHead.Status
	}
	return StatusPendingTeamHead
}

type PermissionRequest struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	Date         time.Time `json:"date"`
	FromTime     string    `json:"fromTime"`
	ToTime       string    `json:"toTime"`
	Minutes      int       `json:"minutes"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	DecidedBy    string    `json:"decidedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
