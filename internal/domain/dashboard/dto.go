package dashboard

import (
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	EmployeeSummary  EmployeeSummaryResponse `json:"employee_summary"`
	Today            AttendanceStatsResponse `json:"today"`
	UpcomingHolidays []UpcomingHoliday       `json:"upcoming_holidays"`
	WorkingMonth     WorkingMonthResponse    `json:"working_month"`
}

// EmployeeSummaryResponse contains headcount and site counts
type EmployeeSummaryResponse struct {
	TotalEmployee    int64  `json:"total_employee"`
	ActiveEmployee   int64  `json:"active_employee"`
	InactiveEmployee int64  `json:"inactive_employee"`
	NewEmployee      int64  `json:"new_employee"` // joined within 30 days
	ActiveWorkSites  int64  `json:"active_work_sites"`
	UpdatedAt        string `json:"updated_at"`
}

// AttendanceStatsResponse is the marking progress for one day, active employees only.
type AttendanceStatsResponse struct {
	Date        string  `json:"date"` // Format: "YYYY-MM-DD"
	Present     int     `json:"present"`
	Absent      int     `json:"absent"`
	Leave       int     `json:"leave"`
	Unmarked    int     `json:"unmarked"`
	Total       int     `json:"total"`
	IsHoliday   bool    `json:"is_holiday"`
	HolidayName *string `json:"holiday_name,omitempty"`
	IsWeeklyOff bool    `json:"is_weekly_off"`
}

type UpcomingHoliday struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Weekday string `json:"weekday"`
}

// WorkingMonthResponse is the attendance period that contains today.
type WorkingMonthResponse struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type DailyStatsRequest struct {
	Date       string    `json:"date"`
	ParsedDate time.Time `json:"-"`
}

// Validate defaults an empty date to today.
func (r *DailyStatsRequest) Validate() error {
	if r.Date == "" {
		now := time.Now()
		r.ParsedDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	}
	d, ok := validator.IsValidDate(r.Date)
	if !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	r.ParsedDate = d
	return nil
}
