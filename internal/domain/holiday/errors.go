package holiday

import "errors"

var (
	ErrHolidayNotFound   = errors.New("holiday not found")
	ErrHolidayDateExists = errors.New("a holiday already exists on this date")
	ErrInvalidCalendar   = errors.New("calendar file could not be parsed")
	ErrInvalidWeekday    = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
)
