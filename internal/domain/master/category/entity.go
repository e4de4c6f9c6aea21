package category

import "time"

// Category groups employees and carries the default schedule used when an
// attendance record is not tied to a work site.
type Category struct {
	ID         string
	Name       string
	TimeIn     *string
	TimeOut    *string
	BreakHours *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
