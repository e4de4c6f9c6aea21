package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/domain/timesheet"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyReportRequest struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Format string `json:"format"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := timesheet.ValidateYearMonth(r.Year, r.Month); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	r.Format = strings.ToLower(r.Format)
	if r.Format == "" {
		r.Format = FormatJSON
	}
	if !validator.IsInSlice(r.Format, []string{FormatJSON, FormatXLSX, FormatPDF}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: json, xlsx, pdf",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyReport struct {
	OrgName     string `json:"org_name"`
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Days       []timesheet.DayHeader    `json:"days"`
	LeaveCodes []string                 `json:"leave_codes"`
	Rows       []MonthlyReportRow       `json:"rows"`
	Totals     timesheet.MonthlySummary `json:"totals"`
}

type MonthlyReportRow struct {
	SerialNo     int                      `json:"serial_no"`
	EmployeeID   string                   `json:"employee_id"`
	EmployeeCode string                   `json:"employee_code"`
	EmployeeName string                   `json:"employee_name"`
	CategoryName string                   `json:"category_name"`
	Codes        []string                 `json:"codes"` // one per day, aligned with Days
	Summary      timesheet.MonthlySummary `json:"summary"`
}

// ========================================
// YEARLY ATTENDANCE REPORT
// ========================================

type YearlyReportRequest struct {
	Year   int    `json:"year"`
	Format string `json:"format"`
}

func (r *YearlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}

	r.Format = strings.ToLower(r.Format)
	if r.Format == "" {
		r.Format = FormatJSON
	}
	if !validator.IsInSlice(r.Format, []string{FormatJSON, FormatXLSX}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: json, xlsx",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type YearlyReport struct {
	OrgName     string   `json:"org_name"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	GeneratedAt string   `json:"generated_at"`
	MonthLabels []string `json:"month_labels"`
	LeaveCodes  []string `json:"leave_codes"`

	Rows   []YearlyReportRow        `json:"rows"`
	Totals timesheet.MonthlySummary `json:"totals"`
}

type YearlyReportRow struct {
	SerialNo     int                        `json:"serial_no"`
	EmployeeID   string                     `json:"employee_id"`
	EmployeeCode string                     `json:"employee_code"`
	EmployeeName string                     `json:"employee_name"`
	CategoryName string                     `json:"category_name"`
	Months       []timesheet.MonthlySummary `json:"months"` // 12 working months, January first
	Total        timesheet.MonthlySummary   `json:"total"`
}

// ExportFile is a rendered report ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
