package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/employee"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"
)

var (
	monday    = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	tuesday   = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)
	saturday  = time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC)
	sunday    = time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)
)

func tod(s string) *timeofday.TimeOfDay {
	return timeofday.ParsePtr(s)
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestWorkedMinutes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
		brk  int
		date time.Time
		want *int
	}{
		{"weekday without break", "09:00", "17:00", 0, monday, intPtr(480)},
		{"break subtracted", "09:00", "17:00", 60, tuesday, intPtr(420)},
		{"sunday is never working time", "09:00", "17:00", 0, sunday, intPtr(0)},
		{"saturday is an ordinary day", "09:00", "13:00", 0, saturday, intPtr(240)},
		{"out before in", "17:00", "09:00", 0, monday, intPtr(0)},
		{"out equals in", "09:00", "09:00", 0, monday, intPtr(0)},
		{"break longer than shift", "09:00", "09:30", 60, monday, intPtr(0)},
		{"missing in", "", "17:00", 0, monday, nil},
		{"missing out", "09:00", "", 0, sunday, nil},
		{"garbled in", "nine", "17:00", 0, monday, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkedMinutes(tod(tt.in), tod(tt.out), tt.brk, tt.date)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestOvertimeMinutes(t *testing.T) {
	tests := []struct {
		name        string
		in, out     string
		expIn       string
		expOut      string
		actualBreak int
		expBreak    int
		date        time.Time
		want        *int
	}{
		{"sunday counts everything", "09:00", "17:00", "09:00", "17:00", 0, 0, sunday, intPtr(480)},
		{"sunday ignores missing schedule", "09:00", "17:00", "", "", 60, 0, sunday, intPtr(420)},
		{"actual equals expected", "09:00", "17:00", "09:00", "17:00", 60, 60, wednesday, intPtr(0)},
		{"two hours over", "09:00", "19:00", "09:00", "17:00", 60, 60, wednesday, intPtr(120)},
		{"short day has no negative overtime", "09:00", "12:00", "09:00", "17:00", 0, 60, wednesday, intPtr(0)},
		{"no expected schedule", "09:00", "17:00", "", "", 0, 0, wednesday, nil},
		{"expected end before start", "09:00", "17:00", "17:00", "09:00", 0, 0, wednesday, nil},
		{"expected window of zero length", "09:00", "17:00", "09:00", "09:00", 0, 0, wednesday, nil},
		{"only expected start", "09:00", "17:00", "09:00", "", 0, 0, wednesday, nil},
		{"out before in", "17:00", "09:00", "09:00", "17:00", 0, 0, wednesday, intPtr(0)},
		{"missing in", "", "17:00", "09:00", "17:00", 0, 0, wednesday, nil},
		{"expected break exceeds window", "09:00", "10:00", "09:00", "09:30", 0, 60, wednesday, intPtr(60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OvertimeMinutes(tod(tt.in), tod(tt.out), tod(tt.expIn), tod(tt.expOut), tt.actualBreak, tt.expBreak, tt.date)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestComputeDay(t *testing.T) {
	sc := NewScheduleContext(testCategories(), testWorkSites(), nil)
	emp := employee.Employee{ID: "e1", CategoryID: strPtr("cat-office"), Status: employee.StatusActive}

	t.Run("present with recorded times", func(t *testing.T) {
		rec := &attendance.Attendance{
			Status:  attendance.StatusPresent,
			TimeIn:  strPtr("08:00"),
			TimeOut: strPtr("19:00"),
		}
		got := ComputeDay(sc, emp, rec, wednesday)

		require.NotNil(t, got.WorkedMinutes)
		require.NotNil(t, got.OvertimeMinutes)
		// 11h - 1h break = 600; expected 9h - 1h = 480
		assert.Equal(t, 600, *got.WorkedMinutes)
		assert.Equal(t, 120, *got.OvertimeMinutes)
		assert.Equal(t, "08:00", got.ActualDisplay.Start.String())
		assert.Equal(t, "09:00", got.Expected.Start.String())
	})

	t.Run("present on sunday", func(t *testing.T) {
		rec := &attendance.Attendance{
			Status:  attendance.StatusPresent,
			TimeIn:  strPtr("09:00"),
			TimeOut: strPtr("13:00"),
		}
		got := ComputeDay(sc, emp, rec, sunday)

		require.NotNil(t, got.WorkedMinutes)
		require.NotNil(t, got.OvertimeMinutes)
		assert.Equal(t, 0, *got.WorkedMinutes)
		assert.Equal(t, 180, *got.OvertimeMinutes)
	})

	t.Run("present without recorded times", func(t *testing.T) {
		rec := &attendance.Attendance{Status: attendance.StatusPresent}
		got := ComputeDay(sc, emp, rec, wednesday)

		assert.Nil(t, got.WorkedMinutes)
		assert.Nil(t, got.OvertimeMinutes)
		// display still pre-fills the expected times
		require.NotNil(t, got.ActualDisplay.Start)
		assert.Equal(t, "09:00", got.ActualDisplay.Start.String())
	})

	t.Run("absent and leave never compute", func(t *testing.T) {
		for _, status := range []attendance.Status{attendance.StatusAbsent, attendance.StatusLeave} {
			rec := &attendance.Attendance{
				Status:  status,
				TimeIn:  strPtr("09:00"),
				TimeOut: strPtr("20:00"),
			}
			got := ComputeDay(sc, emp, rec, sunday)
			assert.Nil(t, got.WorkedMinutes, status)
			assert.Nil(t, got.OvertimeMinutes, status)
		}
	})

	t.Run("no record", func(t *testing.T) {
		got := ComputeDay(sc, emp, nil, wednesday)
		assert.Nil(t, got.WorkedMinutes)
		assert.Nil(t, got.OvertimeMinutes)
		assert.True(t, got.Expected.Usable())
	})

	t.Run("no schedule anywhere", func(t *testing.T) {
		loose := employee.Employee{ID: "e2", Status: employee.StatusActive}
		rec := &attendance.Attendance{
			Status:  attendance.StatusPresent,
			TimeIn:  strPtr("09:00"),
			TimeOut: strPtr("17:00"),
		}
		got := ComputeDay(sc, loose, rec, wednesday)

		require.NotNil(t, got.WorkedMinutes)
		assert.Equal(t, 480, *got.WorkedMinutes)
		assert.Nil(t, got.OvertimeMinutes)
		assert.Equal(t, "0", FormatOvertime(got.OvertimeMinutes))
	})
}
