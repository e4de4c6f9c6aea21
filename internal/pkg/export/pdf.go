package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/domain/timesheet"
)

const (
	pdfMargin    = 6.0
	pdfRowHeight = 5.0
	pdfNameWidth = 34.0
	pdfCodeWidth = 12.0
	pdfSumWidth  = 9.0
	pdfTimeWidth = 12.0
)

// MonthlyPDF renders the monthly register on landscape A3 so a full
// 31-day grid fits on one page width.
func MonthlyPDF(rep report.MonthlyReport) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A3", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(rep.Title, true)
	pdf.SetCreator(rep.OrgName, true)

	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pdfMargin

	countCols := append([]string{"P", "A"}, rep.LeaveCodes...)
	countCols = append(countCols, "H", "WO")
	fixedW := pdfCodeWidth + pdfNameWidth + float64(len(countCols))*pdfSumWidth + 2*pdfTimeWidth
	dayW := (usable - fixedW) / float64(max(len(rep.Days), 1))

	header := func() {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(usable, 7, rep.OrgName, "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(usable, 6, fmt.Sprintf("%s (%s to %s)", rep.Title, rep.PeriodStart, rep.PeriodEnd), "", 1, "C", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "B", 7)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(pdfCodeWidth, pdfRowHeight*2, "Code", "1", 0, "C", true, 0, "")
		pdf.CellFormat(pdfNameWidth, pdfRowHeight*2, "Name", "1", 0, "C", true, 0, "")

		x, y := pdf.GetXY()
		for i, d := range rep.Days {
			pdf.SetXY(x+float64(i)*dayW, y)
			pdf.CellFormat(dayW, pdfRowHeight, fmt.Sprintf("%d", d.Day), "1", 0, "C", true, 0, "")
			pdf.SetXY(x+float64(i)*dayW, y+pdfRowHeight)
			pdf.CellFormat(dayW, pdfRowHeight, d.Weekday[:1], "1", 0, "C", true, 0, "")
		}
		pdf.SetXY(x+float64(len(rep.Days))*dayW, y)
		for _, c := range countCols {
			pdf.CellFormat(pdfSumWidth, pdfRowHeight*2, c, "1", 0, "C", true, 0, "")
		}
		pdf.CellFormat(pdfTimeWidth, pdfRowHeight*2, "Worked", "1", 0, "C", true, 0, "")
		pdf.CellFormat(pdfTimeWidth, pdfRowHeight*2, "OT", "1", 1, "C", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	summaryCells := func(s timesheet.MonthlySummary, fill bool) {
		vals := []int{s.Present, s.Absent}
		for _, code := range rep.LeaveCodes {
			vals = append(vals, s.LeaveByCode[code])
		}
		vals = append(vals, s.Holiday, s.WeeklyOff)
		for _, v := range vals {
			pdf.CellFormat(pdfSumWidth, pdfRowHeight, fmt.Sprintf("%d", v), "1", 0, "C", fill, 0, "")
		}
		pdf.CellFormat(pdfTimeWidth, pdfRowHeight, s.TotalWorkedDisplay, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(pdfTimeWidth, pdfRowHeight, s.TotalOvertimeDisplay, "1", 1, "C", fill, 0, "")
	}

	pdf.SetHeaderFunc(header)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 7)
	for _, r := range rep.Rows {
		pdf.CellFormat(pdfCodeWidth, pdfRowHeight, r.EmployeeCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfNameWidth, pdfRowHeight, truncate(r.EmployeeName, 24), "1", 0, "L", false, 0, "")
		for _, code := range r.Codes {
			fill := code == timesheet.CodeHoliday || code == timesheet.CodeWeeklyOff
			if fill {
				pdf.SetFillColor(217, 217, 217)
			}
			if code == timesheet.CodeAbsent {
				pdf.SetTextColor(192, 0, 0)
			}
			pdf.CellFormat(dayW, pdfRowHeight, code, "1", 0, "C", fill, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		summaryCells(r.Summary, false)
	}

	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetFillColor(226, 239, 218)
	pdf.CellFormat(pdfCodeWidth+pdfNameWidth+float64(len(rep.Days))*dayW, pdfRowHeight, "Total", "1", 0, "R", true, 0, "")
	summaryCells(rep.Totals, true)

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(usable, 4, "P Present, A Absent, H Holiday, WO Weekly off, - Not marked. Generated "+rep.GeneratedAt, "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
