package timesheet

import (
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/employee"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"
)

// WorkedMinutes returns clocked minutes less the break. It is nil when either
// time is missing, 0 when out is not after in, and 0 on Sundays, whose time
// counts entirely as overtime.
func WorkedMinutes(in, out *timeofday.TimeOfDay, breakMinutes int, date time.Time) *int {
	if in == nil || out == nil {
		return nil
	}
	duration := int(*out - *in)
	if duration <= 0 {
		return intPtr(0)
	}
	if isSunday(date) {
		return intPtr(0)
	}
	return intPtr(max(0, duration-breakMinutes))
}

// OvertimeMinutes returns worked minutes beyond the expected window's worked
// minutes. On Sundays every worked minute is overtime. Without a usable
// expected window on other days the result is nil: overtime is unknown, not zero.
func OvertimeMinutes(in, out, expectedStart, expectedEnd *timeofday.TimeOfDay, actualBreak, expectedBreak int, date time.Time) *int {
	if in == nil || out == nil {
		return nil
	}
	duration := int(*out - *in)
	if duration <= 0 {
		return intPtr(0)
	}
	actualWorked := max(0, duration-actualBreak)

	if isSunday(date) {
		return intPtr(actualWorked)
	}

	expected := ScheduleWindow{Start: expectedStart, End: expectedEnd, BreakMinutes: expectedBreak}
	expectedDuration := expected.Duration()
	if expectedDuration == nil {
		return nil
	}
	expectedWorked := max(0, *expectedDuration-expectedBreak)
	return intPtr(max(0, actualWorked-expectedWorked))
}

// DayComputation is the outcome for one employee on one date.
type DayComputation struct {
	Expected        ScheduleWindow
	ActualDisplay   ScheduleWindow
	WorkedMinutes   *int
	OvertimeMinutes *int
}

// ComputeDay resolves the schedules for a record and, for Present records,
// computes worked and overtime minutes from the recorded times. record may be nil.
func ComputeDay(sc *ScheduleContext, emp employee.Employee, record *attendance.Attendance, date time.Time) DayComputation {
	result := DayComputation{
		Expected:      sc.ResolveExpectedWindow(emp, record, date),
		ActualDisplay: sc.ResolveActualDefaultWindow(emp, record, date),
	}
	if record == nil || !record.IsPresent() {
		return result
	}

	in := timeofday.ParseNullable(record.TimeIn)
	out := timeofday.ParseNullable(record.TimeOut)
	exp := result.Expected

	result.WorkedMinutes = WorkedMinutes(in, out, exp.BreakMinutes, date)
	result.OvertimeMinutes = OvertimeMinutes(in, out, exp.Start, exp.End, exp.BreakMinutes, exp.BreakMinutes, date)
	return result
}

func isSunday(date time.Time) bool {
	return date.Weekday() == time.Sunday
}

func intPtr(v int) *int {
	return &v
}
