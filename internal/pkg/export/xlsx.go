package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/domain/timesheet"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
	ContentTypeICS  = "text/calendar; charset=utf-8"
)

type sheetStyles struct {
	title   int
	header  int
	offDay  int
	absent  int
	summary int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	}); err != nil {
		return s, err
	}
	if s.offDay, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorder(),
	}); err != nil {
		return s, err
	}
	if s.absent, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#C00000"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorder(),
	}); err != nil {
		return s, err
	}
	if s.summary, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorder(),
	}); err != nil {
		return s, err
	}
	return s, nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#BFBFBF", Style: 1},
		{Type: "top", Color: "#BFBFBF", Style: 1},
		{Type: "right", Color: "#BFBFBF", Style: 1},
		{Type: "bottom", Color: "#BFBFBF", Style: 1},
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

// summaryColumns are the per-employee totals appended after the day grid.
func summaryColumns(leaveCodes []string) []string {
	cols := []string{"P", "A"}
	cols = append(cols, leaveCodes...)
	return append(cols, "H", "WO", "Worked", "OT")
}

func summaryValues(s timesheet.MonthlySummary, leaveCodes []string) []any {
	vals := []any{s.Present, s.Absent}
	for _, code := range leaveCodes {
		vals = append(vals, s.LeaveByCode[code])
	}
	return append(vals, s.Holiday, s.WeeklyOff, s.TotalWorkedDisplay, s.TotalOvertimeDisplay)
}

// MonthlyWorkbook renders the attendance register: one row per employee,
// one column per day of the working month, followed by the totals.
func MonthlyWorkbook(rep report.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("%04d-%02d", rep.Year, rep.Month)
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	fixed := []string{"S.No", "Code", "Name", "Category"}
	summary := summaryColumns(rep.LeaveCodes)
	lastCol := len(fixed) + len(rep.Days) + len(summary)

	// Title rows
	f.SetCellValue(sheet, "A1", rep.OrgName)
	f.MergeCell(sheet, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheet, "A1", cell(lastCol, 1), styles.title)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("%s (%s to %s)", rep.Title, rep.PeriodStart, rep.PeriodEnd))
	f.MergeCell(sheet, "A2", cell(lastCol, 2))
	f.SetCellStyle(sheet, "A2", cell(lastCol, 2), styles.title)

	// Header rows: day number and weekday
	const dayRow, weekdayRow = 4, 5
	for i, h := range fixed {
		f.SetCellValue(sheet, cell(i+1, dayRow), h)
		f.MergeCell(sheet, cell(i+1, dayRow), cell(i+1, weekdayRow))
	}
	for i, d := range rep.Days {
		col := len(fixed) + i + 1
		f.SetCellValue(sheet, cell(col, dayRow), d.Day)
		f.SetCellValue(sheet, cell(col, weekdayRow), d.Weekday)
	}
	for i, h := range summary {
		col := len(fixed) + len(rep.Days) + i + 1
		f.SetCellValue(sheet, cell(col, dayRow), h)
		f.MergeCell(sheet, cell(col, dayRow), cell(col, weekdayRow))
	}
	f.SetCellStyle(sheet, cell(1, dayRow), cell(lastCol, weekdayRow), styles.header)

	row := weekdayRow + 1
	for _, r := range rep.Rows {
		f.SetCellValue(sheet, cell(1, row), r.SerialNo)
		f.SetCellValue(sheet, cell(2, row), r.EmployeeCode)
		f.SetCellValue(sheet, cell(3, row), r.EmployeeName)
		f.SetCellValue(sheet, cell(4, row), r.CategoryName)

		for i, code := range r.Codes {
			col := len(fixed) + i + 1
			f.SetCellValue(sheet, cell(col, row), code)
			switch code {
			case timesheet.CodeHoliday, timesheet.CodeWeeklyOff:
				f.SetCellStyle(sheet, cell(col, row), cell(col, row), styles.offDay)
			case timesheet.CodeAbsent:
				f.SetCellStyle(sheet, cell(col, row), cell(col, row), styles.absent)
			}
		}

		for i, v := range summaryValues(r.Summary, rep.LeaveCodes) {
			f.SetCellValue(sheet, cell(len(fixed)+len(rep.Days)+i+1, row), v)
		}
		row++
	}

	// Grand totals
	f.SetCellValue(sheet, cell(1, row), "Total")
	f.MergeCell(sheet, cell(1, row), cell(len(fixed)+len(rep.Days), row))
	for i, v := range summaryValues(rep.Totals, rep.LeaveCodes) {
		f.SetCellValue(sheet, cell(len(fixed)+len(rep.Days)+i+1, row), v)
	}
	f.SetCellStyle(sheet, cell(1, row), cell(lastCol, row), styles.summary)

	f.SetColWidth(sheet, "A", "A", 6)
	f.SetColWidth(sheet, "B", "B", 10)
	f.SetColWidth(sheet, "C", "C", 26)
	f.SetColWidth(sheet, "D", "D", 16)
	f.SetColWidth(sheet, colName(len(fixed)+1), colName(len(fixed)+len(rep.Days)), 4.5)
	f.SetColWidth(sheet, colName(len(fixed)+len(rep.Days)+1), colName(lastCol), 8)
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      len(fixed),
		YSplit:      weekdayRow,
		TopLeftCell: cell(len(fixed)+1, weekdayRow+1),
		ActivePane:  "bottomRight",
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// YearlyWorkbook renders one summary sheet for the year plus a sheet per
// working month with the per-employee totals.
func YearlyWorkbook(rep report.YearlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	fixed := []string{"S.No", "Code", "Name", "Category"}
	summary := summaryColumns(rep.LeaveCodes)
	lastCol := len(fixed) + len(summary)

	writeSheet := func(sheet, title string, pick func(report.YearlyReportRow) timesheet.MonthlySummary, totals timesheet.MonthlySummary) error {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		f.SetCellValue(sheet, "A1", rep.OrgName)
		f.MergeCell(sheet, "A1", cell(lastCol, 1))
		f.SetCellValue(sheet, "A2", title)
		f.MergeCell(sheet, "A2", cell(lastCol, 2))
		f.SetCellStyle(sheet, "A1", cell(lastCol, 2), styles.title)

		for i, h := range append(append([]string{}, fixed...), summary...) {
			f.SetCellValue(sheet, cell(i+1, 4), h)
		}
		f.SetCellStyle(sheet, cell(1, 4), cell(lastCol, 4), styles.header)

		row := 5
		for _, r := range rep.Rows {
			f.SetCellValue(sheet, cell(1, row), r.SerialNo)
			f.SetCellValue(sheet, cell(2, row), r.EmployeeCode)
			f.SetCellValue(sheet, cell(3, row), r.EmployeeName)
			f.SetCellValue(sheet, cell(4, row), r.CategoryName)
			for i, v := range summaryValues(pick(r), rep.LeaveCodes) {
				f.SetCellValue(sheet, cell(len(fixed)+i+1, row), v)
			}
			row++
		}
		f.SetCellValue(sheet, cell(1, row), "Total")
		f.MergeCell(sheet, cell(1, row), cell(len(fixed), row))
		for i, v := range summaryValues(totals, rep.LeaveCodes) {
			f.SetCellValue(sheet, cell(len(fixed)+i+1, row), v)
		}
		f.SetCellStyle(sheet, cell(1, row), cell(lastCol, row), styles.summary)

		f.SetColWidth(sheet, "A", "A", 6)
		f.SetColWidth(sheet, "B", "B", 10)
		f.SetColWidth(sheet, "C", "C", 26)
		f.SetColWidth(sheet, "D", "D", 16)
		f.SetColWidth(sheet, colName(len(fixed)+1), colName(lastCol), 9)
		return nil
	}

	yearSheet := fmt.Sprintf("%04d", rep.Year)
	if err := writeSheet(yearSheet, rep.Title, func(r report.YearlyReportRow) timesheet.MonthlySummary {
		return r.Total
	}, rep.Totals); err != nil {
		return nil, err
	}

	for m, label := range rep.MonthLabels {
		var totals timesheet.MonthlySummary
		for _, r := range rep.Rows {
			if m < len(r.Months) {
				totals.Add(r.Months[m])
			}
		}
		totals.TotalWorkedDisplay = timeofday.FormatMinutes(totals.TotalWorkedMinutes)
		totals.TotalOvertimeDisplay = timeofday.FormatMinutes(totals.TotalOvertimeMinutes)

		month := m
		if err := writeSheet(label, fmt.Sprintf("%s %d", label, rep.Year), func(r report.YearlyReportRow) timesheet.MonthlySummary {
			if month < len(r.Months) {
				return r.Months[month]
			}
			return timesheet.MonthlySummary{}
		}, totals); err != nil {
			return nil, err
		}
	}

	if idx, err := f.GetSheetIndex(yearSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// LeaveCodes returns the sorted union of leave codes seen in the summaries.
func LeaveCodes(summaries ...timesheet.MonthlySummary) []string {
	seen := map[string]struct{}{}
	for _, s := range summaries {
		for code := range s.LeaveByCode {
			seen[code] = struct{}{}
		}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
