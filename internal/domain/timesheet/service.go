package timesheet

import "context"

type TimesheetService interface {
	// GetDailyTimesheet returns one row per active employee for a date, grouped by category.
	GetDailyTimesheet(ctx context.Context, req DailyTimesheetRequest) (DailyTimesheetResponse, error)

	// GetMonthlyTimesheet returns every active employee's rows for a working month.
	GetMonthlyTimesheet(ctx context.Context, req MonthlyTimesheetRequest) (MonthlyTimesheetResponse, error)

	// GetEmployeeTimesheet returns a single employee's rows for a working month.
	GetEmployeeTimesheet(ctx context.Context, req EmployeeTimesheetRequest) (EmployeeTimesheet, error)
}
