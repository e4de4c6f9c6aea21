package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// MarkAttendance creates or replaces the record for (employee, date).
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	// BulkMarkAttendance marks several employees for one date in a single transaction.
	BulkMarkAttendance(ctx context.Context, req BulkMarkAttendanceRequest) ([]AttendanceResponse, error)

	// UpdateTimes edits the clocked times of a Present record.
	UpdateTimes(ctx context.Context, req UpdateTimesRequest) (AttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)
	DeleteAttendance(ctx context.Context, id string) error

	// MarkAbsentees records every active employee without a record on date as Absent,
	// unless date is a holiday or weekly off. It returns the number of records written.
	MarkAbsentees(ctx context.Context, date time.Time) (int, error)
}
