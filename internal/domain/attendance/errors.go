package attendance

import "errors"

var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrLeaveTypeRequired   = errors.New("leave_type_id is required when status is Leave")
	ErrEmployeeInactive    = errors.New("attendance cannot be marked for an inactive employee")
	ErrTimesRequirePresent = errors.New("times can only be edited on Present records")
	ErrInvalidDateRange    = errors.New("end_date must not be before start_date")
	ErrInvalidReference    = errors.New("work site does not exist")
)
