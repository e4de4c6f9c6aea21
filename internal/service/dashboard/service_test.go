package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/dashboard"
	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
)

type fakeDashboardRepo struct {
	err error
}

func (r fakeDashboardRepo) GetEmployeeSummary(context.Context, time.Time) (*dashboard.EmployeeSummaryStats, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &dashboard.EmployeeSummaryStats{Total: 12, Active: 10, Inactive: 2, New: 1}, nil
}

func (r fakeDashboardRepo) CountActiveWorkSites(context.Context) (int64, error) {
	return 3, nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
}

func (fakeAttendanceRepo) CountByStatusOn(context.Context, time.Time) (map[attendance.Status]int, error) {
	return map[attendance.Status]int{
		attendance.StatusPresent: 6,
		attendance.StatusAbsent:  1,
		attendance.StatusLeave:   1,
	}, nil
}

type fakeHolidayRepo struct {
	holiday.HolidayRepository
	holidays []holiday.Holiday
}

func (r fakeHolidayRepo) ListBetween(_ context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range r.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeWeeklyOffRepo struct {
	holiday.WeeklyOffRepository
}

func (fakeWeeklyOffRepo) List(context.Context) ([]holiday.WeeklyOff, error) {
	return []holiday.WeeklyOff{{Weekday: time.Sunday, IsOff: true}}, nil
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(repo fakeDashboardRepo) *DashboardServiceImpl {
	holidays := fakeHolidayRepo{holidays: []holiday.Holiday{
		{Date: day(3, 1), Name: "Past"},
		{Date: day(3, 27), Name: "A"},
		{Date: day(4, 10), Name: "B"},
		{Date: day(5, 1), Name: "C"},
		{Date: day(8, 15), Name: "D"},
		{Date: day(10, 2), Name: "E"},
		{Date: day(11, 1), Name: "F"},
	}}
	svc := NewDashboardService(repo, fakeAttendanceRepo{}, holidays, fakeWeeklyOffRepo{}).(*DashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 27, 11, 30, 0, 0, time.UTC) }
	return svc
}

func TestGetDashboard(t *testing.T) {
	svc := newService(fakeDashboardRepo{})

	resp, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.EmployeeSummary.ActiveEmployee)
	assert.Equal(t, int64(3), resp.EmployeeSummary.ActiveWorkSites)

	assert.Equal(t, "2024-03-27", resp.Today.Date)
	assert.Equal(t, 2, resp.Today.Unmarked)
	assert.True(t, resp.Today.IsHoliday)
	assert.Equal(t, "A", *resp.Today.HolidayName)

	require.Len(t, resp.UpcomingHolidays, 5)
	assert.Equal(t, "A", resp.UpcomingHolidays[0].Name)
	assert.Equal(t, "E", resp.UpcomingHolidays[4].Name)

	assert.Equal(t, 4, resp.WorkingMonth.Month)
	assert.Equal(t, "2024-03-26", resp.WorkingMonth.StartDate)
	assert.Equal(t, "2024-04-25", resp.WorkingMonth.EndDate)
}

func TestGetDashboard_PropagatesErrors(t *testing.T) {
	svc := newService(fakeDashboardRepo{err: errors.New("db down")})

	_, err := svc.GetDashboard(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestGetDailyAttendanceStats(t *testing.T) {
	svc := newService(fakeDashboardRepo{})

	stats, err := svc.GetDailyAttendanceStats(context.Background(), dashboard.DailyStatsRequest{Date: "2024-03-31"})
	require.NoError(t, err)
	assert.True(t, stats.IsWeeklyOff)
	assert.False(t, stats.IsHoliday)
	assert.Equal(t, 10, stats.Total)

	_, err = svc.GetDailyAttendanceStats(context.Background(), dashboard.DailyStatsRequest{Date: "31-03-2024"})
	assert.Error(t, err)
}
