package leavetype

import "time"

type LeaveType struct {
	ID        string
	Name      string
	Code      string // short code shown in report grids, e.g. "CL", "SL"
	IsPaid    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
