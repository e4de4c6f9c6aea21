package worksite

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var StatusValues = []string{
	string(StatusActive),
	string(StatusInactive),
}

// WorkSite is a project or site employees can be assigned to for a day.
// TimeIn, TimeOut and BreakHours are the site's current schedule.
type WorkSite struct {
	ID         string
	Name       string
	Status     Status
	TimeIn     *string
	TimeOut    *string
	BreakHours *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ScheduleHistory is an append-only snapshot of a site's schedule, effective
// from EffectiveFrom until the next snapshot.
type ScheduleHistory struct {
	ID            string
	WorkSiteID    string
	EffectiveFrom time.Time
	TimeIn        *string
	TimeOut       *string
	BreakHours    *float64
	CreatedAt     time.Time
}

// ScheduleChanged reports whether any schedule field differs from the site's current values.
func (w WorkSite) ScheduleChanged(timeIn, timeOut *string, breakHours *float64) bool {
	return !equalString(w.TimeIn, timeIn) || !equalString(w.TimeOut, timeOut) || !equalFloat(w.BreakHours, breakHours)
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
