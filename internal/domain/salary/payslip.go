package salary

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Payslip renders a salary record as a single-page PDF.
func Payslip(r Record) ([]byte, error) {
	breakdown, err := Compute(Inputs{
		Year:           r.Year,
		Month:          time.Month(r.Month),
		BasicSalary:    r.BasicSalary,
		TotalLeaveDays: r.TotalLeaveDays,
		PaidLeaveDays:  r.PaidLeaveDays,
		Incentive:      r.Incentive,
		Bonus:          r.Bonus,
		Medical:        r.Medical,
		OtherAllowance: r.OtherAllowance,
	})
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", r.EmployeeName))
	pdf.Ln(7)
	if r.Designation != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Designation: %s", r.Designation))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", time.Month(r.Month), r.Year))
	pdf.Ln(10)

	lines := []struct {
		label string
		value string
	}{
		{"Basic salary", fmt.Sprintf("%.2f", r.BasicSalary)},
		{"Working days", fmt.Sprintf("%d", breakdown.WorkingDays)},
		{"Per-day salary", fmt.Sprintf("%.2f", breakdown.PerDaySalary)},
		{"Leave days (paid / total)", fmt.Sprintf("%.1f / %.1f", r.PaidLeaveDays, r.TotalLeaveDays)},
		{"Leave deduction", fmt.Sprintf("-%.2f", breakdown.Deduction)},
		{"Incentive", fmt.Sprintf("%.2f", r.Incentive)},
		{"Bonus", fmt.Sprintf("%.2f", r.Bonus)},
		{"Medical allowance", fmt.Sprintf("%.2f", r.Medical)},
		{"Other allowance", fmt.Sprintf("%.2f", r.OtherAllowance)},
	}
	for _, line := range lines {
		pdf.Cell(90, 8, line.label)
		pdf.Cell(0, 8, line.value)
		pdf.Ln(7)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(90, 9, "Total salary")
	pdf.Cell(0, 9, fmt.Sprintf("%.2f", r.TotalSalary))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}
