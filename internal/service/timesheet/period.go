package timesheet

import "time"

// Period is an inclusive range of calendar dates.
type Period struct {
	Start time.Time
	End   time.Time
}

// WorkingMonth returns the pay period labelled year/month: the 26th of the
// previous calendar month through the 25th of month.
func WorkingMonth(year int, month time.Month) Period {
	return Period{
		Start: time.Date(year, month-1, 26, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, month, 25, 0, 0, 0, 0, time.UTC),
	}
}

// WorkingMonthOf returns the label of the working month containing date.
func WorkingMonthOf(date time.Time) (int, time.Month) {
	d := dateOnly(date)
	if d.Day() >= 26 {
		next := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		return next.Year(), next.Month()
	}
	return d.Year(), d.Month()
}

// MonthLabel names a working month.
type MonthLabel struct {
	Year  int
	Month time.Month
}

// WorkingMonthsBetween lists the working months from the one containing from
// through the one containing to, oldest first. It returns only from's month
// when to is earlier.
func WorkingMonthsBetween(from, to time.Time) []MonthLabel {
	y, m := WorkingMonthOf(from)
	lastY, lastM := WorkingMonthOf(to)
	last := time.Date(lastY, lastM, 1, 0, 0, 0, 0, time.UTC)

	labels := []MonthLabel{{Year: y, Month: m}}
	for cur := time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC); !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		labels = append(labels, MonthLabel{Year: cur.Year(), Month: cur.Month()})
	}
	return labels
}

// Days lists every date in the period.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (p Period) Contains(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(p.Start) && !d.After(p.End)
}
