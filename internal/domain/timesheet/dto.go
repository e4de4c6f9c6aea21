package timesheet

import (
	"fmt"
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

// Day codes used in grids and reports.
const (
	CodePresent   = "P"
	CodeAbsent    = "A"
	CodeLeave     = "L"
	CodeHoliday   = "H"
	CodeWeeklyOff = "WO"
	CodeUnmarked  = "-"
)

type DailyTimesheetRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today

	ParsedDate time.Time `json:"-"`
}

func (r *DailyTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date == "" {
		r.Date = time.Now().Format("2006-01-02")
	}
	d, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	r.ParsedDate = d
	return nil
}

type MonthlyTimesheetRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (r *MonthlyTimesheetRequest) Validate() error {
	return validateYearMonth(r.Year, r.Month)
}

type EmployeeTimesheetRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

func (r *EmployeeTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if err := validateYearMonth(r.Year, r.Month); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateYearMonth checks a working-month selector.
func ValidateYearMonth(year, month int) error {
	return validateYearMonth(year, month)
}

func validateYearMonth(year, month int) error {
	var errs validator.ValidationErrors

	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if year < 2000 || year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TimesheetRow is one employee on one date. Minute fields are nil when the
// value is unknown; the *Display fields carry the rendered cell text.
type TimesheetRow struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	Weekday      string  `json:"weekday"`
	Code         string  `json:"code"`
	AttendanceID *string `json:"attendance_id,omitempty"`
	Status       *string `json:"status,omitempty"`
	LeaveTypeID  *string `json:"leave_type_id,omitempty"`
	LeaveCode    *string `json:"leave_code,omitempty"`
	WorkSiteID   *string `json:"work_site_id,omitempty"`
	WorkSiteName *string `json:"work_site_name,omitempty"`
	HolidayName  *string `json:"holiday_name,omitempty"`

	ExpectedTimeIn       *string `json:"expected_time_in,omitempty"`
	ExpectedTimeOut      *string `json:"expected_time_out,omitempty"`
	ExpectedBreakMinutes int     `json:"expected_break_minutes"`

	// TimeIn/TimeOut are the recorded times, or the expected ones when none were recorded.
	TimeIn           *string `json:"time_in,omitempty"`
	TimeOut          *string `json:"time_out,omitempty"`
	HasRecordedTimes bool    `json:"has_recorded_times"`

	WorkedMinutes   *int   `json:"worked_minutes"`
	OvertimeMinutes *int   `json:"overtime_minutes"`
	WorkedDisplay   string `json:"worked_display"`
	OvertimeDisplay string `json:"overtime_display"`
}

type CategoryGroup struct {
	CategoryID   *string        `json:"category_id,omitempty"`
	CategoryName string         `json:"category_name"`
	Rows         []TimesheetRow `json:"rows"`
}

type DailyTimesheetResponse struct {
	Date        string          `json:"date"`
	Weekday     string          `json:"weekday"`
	IsSunday    bool            `json:"is_sunday"`
	IsHoliday   bool            `json:"is_holiday"`
	HolidayName *string         `json:"holiday_name,omitempty"`
	IsWeeklyOff bool            `json:"is_weekly_off"`
	Groups      []CategoryGroup `json:"groups"`
}

type MonthlySummary struct {
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	Leave     int `json:"leave"`
	Holiday   int `json:"holiday"`
	WeeklyOff int `json:"weekly_off"`
	Unmarked  int `json:"unmarked"`

	// LeaveByCode counts leave days per leave type code.
	LeaveByCode map[string]int `json:"leave_by_code"`

	TotalWorkedMinutes    int    `json:"total_worked_minutes"`
	TotalOvertimeMinutes  int    `json:"total_overtime_minutes"`
	UndefinedOvertimeDays int    `json:"undefined_overtime_days"`
	TotalWorkedDisplay    string `json:"total_worked_display"`
	TotalOvertimeDisplay  string `json:"total_overtime_display"`
}

// Add accumulates other into s.
func (s *MonthlySummary) Add(other MonthlySummary) {
	s.Present += other.Present
	s.Absent += other.Absent
	s.Leave += other.Leave
	s.Holiday += other.Holiday
	s.WeeklyOff += other.WeeklyOff
	s.Unmarked += other.Unmarked
	if s.LeaveByCode == nil {
		s.LeaveByCode = make(map[string]int)
	}
	for code, n := range other.LeaveByCode {
		s.LeaveByCode[code] += n
	}
	s.TotalWorkedMinutes += other.TotalWorkedMinutes
	s.TotalOvertimeMinutes += other.TotalOvertimeMinutes
	s.UndefinedOvertimeDays += other.UndefinedOvertimeDays
}

type EmployeeTimesheet struct {
	EmployeeID     string         `json:"employee_id"`
	EmployeeCode   string         `json:"employee_code"`
	EmployeeName   string         `json:"employee_name"`
	CategoryName   string         `json:"category_name"`
	DepartmentName *string        `json:"department_name,omitempty"`
	Rows           []TimesheetRow `json:"rows"`
	Summary        MonthlySummary `json:"summary"`
}

type DayHeader struct {
	Date        string  `json:"date"`
	Day         int     `json:"day"`
	Weekday     string  `json:"weekday"`
	IsSunday    bool    `json:"is_sunday"`
	IsHoliday   bool    `json:"is_holiday"`
	HolidayName *string `json:"holiday_name,omitempty"`
	IsWeeklyOff bool    `json:"is_weekly_off"`
}

type MonthlyTimesheetResponse struct {
	Year      int                 `json:"year"`
	Month     int                 `json:"month"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Days      []DayHeader         `json:"days"`
	Employees []EmployeeTimesheet `json:"employees"`
}
