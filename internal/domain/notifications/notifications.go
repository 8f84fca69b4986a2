package notifications

import "time"

const (
	TypeLeaveDecided      = "leave_decided"
	TypePermissionDecided = "permission_decided"
	TypeSalarySaved       = "salary_saved"
)

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
