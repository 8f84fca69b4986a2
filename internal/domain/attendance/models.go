package attendance

import "time"

const (
	LeaveMaid   = "maid"
	LeaveOffice = "office"

	LeaveFull    = "full"
	LeaveMorning = "morning"
	LeaveEvening = "evening"

	StatusComplete  = "complete"
	StatusPartial   = "partial"
	StatusPending   = "pending"
	StatusLeave     = "leave"
	StatusHalfLeave = "half_leave"
)

// Day is one calendar day's attendance record: either up to four time
// punches or a leave marker. Punches are HH:MM strings, empty when unset.
type Day struct {
	ID            string    `json:"id,omitempty"`
	Date          time.Time `json:"date"`
	MorningIn     string    `json:"morningIn"`
	MorningOut    string    `json:"morningOut"`
	EveningIn     string    `json:"eveningIn"`
	EveningOut    string    `json:"eveningOut"`
	LeaveType     string    `json:"leaveType,omitempty"`
	LeaveDuration string    `json:"leaveDuration,omitempty"`
	WorkDone      string    `json:"workDone,omitempty"`
}

// Task is one entry of the recurring-task catalog.
type Task struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	RequiredTimes int    `json:"requiredTimes"`
	Icon          string `json:"icon"`
	Position      int    `json:"position"`
}

// WeekChecks holds one task's completion slots for a Monday-anchored week.
// Slots has exactly RequiredTimes entries; a nil entry is an unchecked slot.
type WeekChecks struct {
	WeekStart time.Time    `json:"weekStart"`
	TaskCode  string       `json:"taskCode"`
	Slots     []*time.Time `json:"slots"`
}

// DefaultTasks is the fallback catalog, used to seed an empty database.
func DefaultTasks() []Task {
	return []Task{
		{Code: "sweep", Name: "Sweep all floors", RequiredTimes: 6, Icon: "broom", Position: 1},
		{Code: "mop", Name: "Mop all floors", RequiredTimes: 3, Icon: "bucket", Position: 2},
		{Code: "dusting", Name: "Dust desks and shelves", RequiredTimes: 2, Icon: "duster", Position: 3},
		{Code: "bathroom", Name: "Clean bathrooms", RequiredTimes: 3, Icon: "sparkle", Position: 4},
		{Code: "pantry", Name: "Clean pantry and sink", RequiredTimes: 6, Icon: "cup", Position: 5},
		{Code: "trash", Name: "Empty trash bins", RequiredTimes: 6, Icon: "bin", Position: 6},
		{Code: "windows", Name: "Wipe windows and glass doors", RequiredTimes: 1, Icon: "window", Position: 7},
		{Code: "fridge", Name: "Clean fridge", RequiredTimes: 1, Icon: "fridge", Position: 8},
	}
}
