package reports

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"hrconsole/internal/dates"
	"hrconsole/internal/domain/attendance"
)

type statusColor struct {
	r, g, b int
}

// Fill colors for attendance status cells.
var statusColors = map[string]statusColor{
	attendance.StatusComplete:  {198, 239, 206},
	attendance.StatusPartial:   {255, 235, 156},
	attendance.StatusPending:   {224, 224, 224},
	attendance.StatusLeave:     {255, 199, 206},
	attendance.StatusHalfLeave: {255, 221, 193},
}

var statusLabels = map[string]string{
	attendance.StatusComplete:  "Complete",
	attendance.StatusPartial:   "Partial",
	attendance.StatusPending:   "Pending",
	attendance.StatusLeave:     "Leave",
	attendance.StatusHalfLeave: "Half leave",
}

// legendOrder keeps the legend stable across renders.
var legendOrder = []string{
	attendance.StatusComplete,
	attendance.StatusPartial,
	attendance.StatusPending,
	attendance.StatusLeave,
	attendance.StatusHalfLeave,
}

// AttendanceMonthPDF renders a month's attendance into a paged A4 table with
// color-coded status cells, summary counts and a legend. A configured logo
// that fails to load degrades to a logo-less layout.
func AttendanceMonthPDF(year int, month time.Month, days []attendance.Day, logoPath string) ([]byte, error) {
	byDate := make(map[string]attendance.Day, len(days))
	for _, d := range days {
		byDate[d.Date.Format("2006-01-02")] = d
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	y := 12.0
	if logoPath != "" {
		if _, err := os.Stat(logoPath); err == nil {
			pdf.ImageOptions(logoPath, 12, 8, 24, 0, false, gofpdf.ImageOptions{}, 0, "")
			y = 28
		} else {
			slog.Warn("report logo unavailable, rendering without it", "path", logoPath, "error", err)
		}
	}

	pdf.SetY(y)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.Cell(0, 9, fmt.Sprintf("Attendance Report - %s %d", month, year))
	pdf.Ln(12)

	widths := []float64{20, 16, 17, 17, 17, 17, 24, 58}
	headers := []string{"Date", "Day", "M-In", "M-Out", "E-In", "E-Out", "Status", "Work Done"}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeader()

	counts := map[string]int{}
	for dayNum := 1; dayNum <= dates.DaysInMonth(year, month); dayNum++ {
		date := time.Date(year, month, dayNum, 0, 0, 0, 0, time.UTC)
		if date.Weekday() == time.Sunday {
			continue
		}
		if pdf.GetY() > 262 {
			pdf.AddPage()
			writeHeader()
		}

		day := byDate[date.Format("2006-01-02")]
		day.Date = date
		status := day.Status()
		counts[status]++

		punches := []string{day.MorningIn, day.MorningOut, day.EveningIn, day.EveningOut}
		if day.LeaveType != "" {
			for i, p := range punches {
				if p == "" {
					punches[i] = "Leave"
				}
			}
		} else {
			for i, p := range punches {
				if p == "" {
					punches[i] = "-"
				}
			}
		}

		pdf.CellFormat(widths[0], 6.5, date.Format("02-01-2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6.5, dates.DayName(date)[:3], "1", 0, "C", false, 0, "")
		for i, p := range punches {
			pdf.CellFormat(widths[2+i], 6.5, p, "1", 0, "C", false, 0, "")
		}

		c := statusColors[status]
		pdf.SetFillColor(c.r, c.g, c.b)
		pdf.CellFormat(widths[6], 6.5, statusLabels[status], "1", 0, "C", true, 0, "")

		work := day.WorkDone
		if len(work) > 38 {
			work = work[:35] + "..."
		}
		pdf.CellFormat(widths[7], 6.5, work, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, status := range legendOrder {
		c := statusColors[status]
		pdf.SetFillColor(c.r, c.g, c.b)
		pdf.CellFormat(8, 6, "", "1", 0, "", true, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf(" %s: %d", statusLabels[status], counts[status]), "", 0, "L", false, 0, "")
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render attendance report: %w", err)
	}
	return buf.Bytes(), nil
}
