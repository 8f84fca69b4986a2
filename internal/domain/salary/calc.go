package salary

import (
	"errors"
	"time"

	"hrconsole/internal/dates"
)

var (
	ErrInvalidMonth  = errors.New("month out of range")
	ErrNegativeInput = errors.New("salary inputs must not be negative")
)

// Inputs are the raw figures a salary computation starts from. Leave-day
// fields are snapped to half-day granularity before use.
type Inputs struct {
	Year           int
	Month          time.Month
	BasicSalary    float64
	TotalLeaveDays float64
	PaidLeaveDays  float64
	Incentive      float64
	Bonus          float64
	Medical        float64
	OtherAllowance float64
}

// Breakdown is a fully derived salary computation.
type Breakdown struct {
	WorkingDays     int     `json:"workingDays"`
	PerDaySalary    float64 `json:"perDaySalary"`
	TotalLeaveDays  float64 `json:"totalLeaveDays"`
	PaidLeaveDays   float64 `json:"paidLeaveDays"`
	UnpaidLeaveDays float64 `json:"unpaidLeaveDays"`
	Deduction       float64 `json:"deduction"`
	TotalSalary     float64 `json:"totalSalary"`
}

// Compute derives the payable salary for a month. Working days exclude
// Sundays; unpaid leave beyond the paid allowance is deducted at the per-day
// rate.
func Compute(in Inputs) (Breakdown, error) {
	if in.Month < time.January || in.Month > time.December {
		return Breakdown{}, ErrInvalidMonth
	}
	if in.BasicSalary < 0 || in.TotalLeaveDays < 0 || in.PaidLeaveDays < 0 ||
		in.Incentive < 0 || in.Bonus < 0 || in.Medical < 0 || in.OtherAllowance < 0 {
		return Breakdown{}, ErrNegativeInput
	}

	total := dates.RoundHalf(in.TotalLeaveDays)
	paid := dates.RoundHalf(in.PaidLeaveDays)
	unpaid := total - paid
	if unpaid < 0 {
		unpaid = 0
	}

	// Every real month keeps at least one non-Sunday day, so this never
	// divides by zero.
	workingDays := dates.WorkingDays(in.Year, in.Month)
	perDay := in.BasicSalary / float64(workingDays)
	deduction := perDay * unpaid

	return Breakdown{
		WorkingDays:     workingDays,
		PerDaySalary:    perDay,
		TotalLeaveDays:  total,
		PaidLeaveDays:   paid,
		UnpaidLeaveDays: unpaid,
		Deduction:       deduction,
		TotalSalary:     in.BasicSalary - deduction + in.Incentive + in.Bonus + in.Medical + in.OtherAllowance,
	}, nil
}
