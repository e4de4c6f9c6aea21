package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLeave   Status = "Leave"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLeave),
}

// Attendance is the single record for an employee on a date.
// TimeIn and TimeOut are free-text "HH:MM" values as entered.
type Attendance struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	Status      Status
	LeaveTypeID *string
	WorkSiteID  *string
	TimeIn      *string
	TimeOut     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for listings
	EmployeeName  *string
	EmployeeCode  *string
	LeaveTypeCode *string
	WorkSiteName  *string
}

func (a Attendance) IsPresent() bool {
	return a.Status == StatusPresent
}

// DateKey returns the record's date as YYYY-MM-DD.
func (a Attendance) DateKey() string {
	return a.Date.Format("2006-01-02")
}
