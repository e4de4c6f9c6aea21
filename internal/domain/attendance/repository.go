package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert inserts the record or replaces the existing one for (employee_id, date).
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	UpdateTimes(ctx context.Context, id string, timeIn, timeOut *string) (Attendance, error)

	// ListBetween returns records with start <= date <= end, optionally for one employee.
	ListBetween(ctx context.Context, start, end time.Time, employeeID *string) ([]Attendance, error)

	// ListEmployeeIDsOn returns the ids of employees that have a record on date.
	ListEmployeeIDsOn(ctx context.Context, date time.Time) ([]string, error)

	CountByStatusOn(ctx context.Context, date time.Time) (map[Status]int, error)

	Delete(ctx context.Context, id string) error
}
