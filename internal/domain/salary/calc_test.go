package salary

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeFormula(t *testing.T) {
	// March 2024: 31 days, 5 Sundays, so 26 working days.
	in := Inputs{
		Year:           2024,
		Month:          time.March,
		BasicSalary:    26000,
		TotalLeaveDays: 4,
		PaidLeaveDays:  1,
		Incentive:      500,
		Bonus:          1000,
		Medical:        250,
		OtherAllowance: 100,
	}
	got, err := Compute(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.WorkingDays != 26 {
		t.Fatalf("working days: got %d, want 26", got.WorkingDays)
	}
	if !almostEqual(got.PerDaySalary, 1000) {
		t.Fatalf("per-day salary: got %v, want 1000", got.PerDaySalary)
	}
	if !almostEqual(got.UnpaidLeaveDays, 3) {
		t.Fatalf("unpaid days: got %v, want 3", got.UnpaidLeaveDays)
	}
	if !almostEqual(got.Deduction, 3000) {
		t.Fatalf("deduction: got %v, want 3000", got.Deduction)
	}
	if !almostEqual(got.TotalSalary, 26000-3000+500+1000+250+100) {
		t.Fatalf("total salary: got %v", got.TotalSalary)
	}
}

func TestComputePaidCoversAll(t *testing.T) {
	got, err := Compute(Inputs{Year: 2024, Month: time.March, BasicSalary: 26000, TotalLeaveDays: 2, PaidLeaveDays: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UnpaidLeaveDays != 0 || got.Deduction != 0 {
		t.Fatalf("paid leave exceeding total must deduct nothing, got %+v", got)
	}
	if !almostEqual(got.TotalSalary, 26000) {
		t.Fatalf("total salary: got %v, want 26000", got.TotalSalary)
	}
}

func TestComputeLeaveRounding(t *testing.T) {
	got, err := Compute(Inputs{Year: 2024, Month: time.March, BasicSalary: 26000, TotalLeaveDays: 2.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalLeaveDays != 2.5 {
		t.Fatalf("2.3 must round to 2.5, got %v", got.TotalLeaveDays)
	}

	got, err = Compute(Inputs{Year: 2024, Month: time.March, BasicSalary: 26000, TotalLeaveDays: 2.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalLeaveDays != 2.0 {
		t.Fatalf("2.2 must round to 2.0, got %v", got.TotalLeaveDays)
	}
}

func TestComputeMonotonicInUnpaidLeave(t *testing.T) {
	base := Inputs{Year: 2024, Month: time.March, BasicSalary: 26000, PaidLeaveDays: 1}
	prev := math.Inf(1)
	for leave := 1.0; leave <= 10; leave += 0.5 {
		in := base
		in.TotalLeaveDays = leave
		got, err := Compute(in)
		if err != nil {
			t.Fatalf("leave %v: unexpected error: %v", leave, err)
		}
		if got.TotalSalary > prev {
			t.Fatalf("total salary must not increase with more leave: %v days -> %v, prev %v", leave, got.TotalSalary, prev)
		}
		prev = got.TotalSalary
	}
}

func TestComputeRejectsBadInputs(t *testing.T) {
	if _, err := Compute(Inputs{Year: 2024, Month: 0, BasicSalary: 1000}); err == nil {
		t.Fatal("expected error for month zero")
	}
	if _, err := Compute(Inputs{Year: 2024, Month: time.March, BasicSalary: -1}); err == nil {
		t.Fatal("expected error for negative basic salary")
	}
}
