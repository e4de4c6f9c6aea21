package timesheet

import "github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"

const (
	workedPlaceholder   = "-"
	overtimePlaceholder = "0"
)

// FormatWorked renders worked minutes; unknown shows "-".
func FormatWorked(minutes *int) string {
	if minutes == nil {
		return workedPlaceholder
	}
	return timeofday.FormatMinutes(*minutes)
}

// FormatOvertime renders overtime minutes. Unknown overtime shows "0" on
// screen and in exports; the underlying value stays nil.
func FormatOvertime(minutes *int) string {
	if minutes == nil {
		return overtimePlaceholder
	}
	return timeofday.FormatMinutes(*minutes)
}

// FormatTotal renders a summed minute count.
func FormatTotal(minutes int) string {
	return timeofday.FormatMinutes(minutes)
}
