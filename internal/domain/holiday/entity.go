package holiday

import "time"

type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeeklyOff marks a weekday (time.Sunday..time.Saturday) as a non-working day.
type WeeklyOff struct {
	Weekday time.Weekday
	IsOff   bool
}

// Calendar is the set of non-working days used by timesheets and reports.
type Calendar struct {
	Holidays   map[string]Holiday // keyed by YYYY-MM-DD
	WeeklyOffs map[time.Weekday]bool
}

func NewCalendar(holidays []Holiday, offs []WeeklyOff) Calendar {
	c := Calendar{
		Holidays:   make(map[string]Holiday, len(holidays)),
		WeeklyOffs: make(map[time.Weekday]bool, len(offs)),
	}
	for _, h := range holidays {
		c.Holidays[h.Date.Format("2006-01-02")] = h
	}
	for _, o := range offs {
		if o.IsOff {
			c.WeeklyOffs[o.Weekday] = true
		}
	}
	return c
}

// HolidayOn returns the holiday falling on date, if any.
func (c Calendar) HolidayOn(date time.Time) (Holiday, bool) {
	h, ok := c.Holidays[date.Format("2006-01-02")]
	return h, ok
}

func (c Calendar) IsWeeklyOff(date time.Time) bool {
	return c.WeeklyOffs[date.Weekday()]
}

// IsWorkingDay is false for holidays and weekly offs.
func (c Calendar) IsWorkingDay(date time.Time) bool {
	if _, ok := c.HolidayOn(date); ok {
		return false
	}
	return !c.IsWeeklyOff(date)
}
