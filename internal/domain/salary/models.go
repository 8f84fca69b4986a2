package salary

import "time"

// Record is one employee's persisted salary for a month.
type Record struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	EmployeeName   string    `json:"employeeName,omitempty"`
	Designation    string    `json:"designation,omitempty"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	BasicSalary    float64   `json:"basicSalary"`
	TotalLeaveDays float64   `json:"totalLeaveDays"`
	PaidLeaveDays  float64   `json:"paidLeaveDays"`
	Incentive      float64   `json:"incentive"`
	Bonus          float64   `json:"bonus"`
	Medical        float64   `json:"medical"`
	OtherAllowance float64   `json:"otherAllowance"`
	TotalSalary    float64   `json:"totalSalary"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
