package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/dashboard"
	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/service/timesheet"
)

const upcomingHolidayLimit = 5

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	attendanceRepo attendance.AttendanceRepository
	holidayRepo    holiday.HolidayRepository
	weeklyOffRepo  holiday.WeeklyOffRepository
	now            func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	attendanceRepo attendance.AttendanceRepository,
	holidayRepo holiday.HolidayRepository,
	weeklyOffRepo holiday.WeeklyOffRepository,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		attendanceRepo:      attendanceRepo,
		holidayRepo:         holidayRepo,
		weeklyOffRepo:       weeklyOffRepo,
		now:                 time.Now,
	}
}

func (s *DashboardServiceImpl) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// GetDashboard returns combined dashboard data, one goroutine per query.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	today := s.today()
	since := today.AddDate(0, 0, -30)

	var (
		summary     *dashboard.EmployeeSummaryStats
		activeSites int64
		counts      map[attendance.Status]int
		holidays    []holiday.Holiday
		weeklyOffs  []holiday.WeeklyOff
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employee summary (total, active, inactive, new)
	g.Go(func() error {
		var err error
		summary, err = s.GetEmployeeSummary(gCtx, since)
		if err != nil {
			return fmt.Errorf("employee summary: %w", err)
		}
		return nil
	})

	// 2. Active work sites
	g.Go(func() error {
		var err error
		activeSites, err = s.CountActiveWorkSites(gCtx)
		if err != nil {
			return fmt.Errorf("work site count: %w", err)
		}
		return nil
	})

	// 3. Today's marks by status
	g.Go(func() error {
		var err error
		counts, err = s.attendanceRepo.CountByStatusOn(gCtx, today)
		if err != nil {
			return fmt.Errorf("attendance counts: %w", err)
		}
		return nil
	})

	// 4. Holidays from today through the next year, today included
	g.Go(func() error {
		var err error
		holidays, err = s.holidayRepo.ListBetween(gCtx, today, today.AddDate(1, 0, 0))
		if err != nil {
			return fmt.Errorf("holidays: %w", err)
		}
		return nil
	})

	// 5. Weekly offs
	g.Go(func() error {
		var err error
		weeklyOffs, err = s.weeklyOffRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("weekly offs: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	year, month := timesheet.WorkingMonthOf(today)
	period := timesheet.WorkingMonth(year, month)

	upcoming := make([]dashboard.UpcomingHoliday, 0, upcomingHolidayLimit)
	for _, h := range holidays {
		if len(upcoming) == upcomingHolidayLimit {
			break
		}
		upcoming = append(upcoming, dashboard.UpcomingHoliday{
			Date:    h.Date.Format("2006-01-02"),
			Name:    h.Name,
			Weekday: h.Date.Weekday().String(),
		})
	}

	cal := holiday.NewCalendar(holidays, weeklyOffs)
	return &dashboard.DashboardResponse{
		EmployeeSummary: dashboard.EmployeeSummaryResponse{
			TotalEmployee:    summary.Total,
			ActiveEmployee:   summary.Active,
			InactiveEmployee: summary.Inactive,
			NewEmployee:      summary.New,
			ActiveWorkSites:  activeSites,
			UpdatedAt:        s.now().Format(time.RFC3339),
		},
		Today:            buildStats(today, counts, summary.Active, cal),
		UpcomingHolidays: upcoming,
		WorkingMonth: dashboard.WorkingMonthResponse{
			Year:      year,
			Month:     int(month),
			StartDate: period.Start.Format("2006-01-02"),
			EndDate:   period.End.Format("2006-01-02"),
		},
	}, nil
}

// GetDailyAttendanceStats returns marking progress for one date.
func (s *DashboardServiceImpl) GetDailyAttendanceStats(ctx context.Context, req dashboard.DailyStatsRequest) (*dashboard.AttendanceStatsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date := req.ParsedDate

	var (
		summary    *dashboard.EmployeeSummaryStats
		counts     map[attendance.Status]int
		holidays   []holiday.Holiday
		weeklyOffs []holiday.WeeklyOff
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.GetEmployeeSummary(gCtx, date.AddDate(0, 0, -30))
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.attendanceRepo.CountByStatusOn(gCtx, date)
		return err
	})
	g.Go(func() error {
		var err error
		holidays, err = s.holidayRepo.ListBetween(gCtx, date, date)
		return err
	})
	g.Go(func() error {
		var err error
		weeklyOffs, err = s.weeklyOffRepo.List(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := buildStats(date, counts, summary.Active, holiday.NewCalendar(holidays, weeklyOffs))
	return &stats, nil
}

func buildStats(date time.Time, counts map[attendance.Status]int, active int64, cal holiday.Calendar) dashboard.AttendanceStatsResponse {
	stats := dashboard.AttendanceStatsResponse{
		Date:        date.Format("2006-01-02"),
		Present:     counts[attendance.StatusPresent],
		Absent:      counts[attendance.StatusAbsent],
		Leave:       counts[attendance.StatusLeave],
		Total:       int(active),
		IsWeeklyOff: cal.IsWeeklyOff(date),
	}
	if h, ok := cal.HolidayOn(date); ok {
		name := h.Name
		stats.IsHoliday = true
		stats.HolidayName = &name
	}
	stats.Unmarked = stats.Total - stats.Present - stats.Absent - stats.Leave
	if stats.Unmarked < 0 {
		stats.Unmarked = 0
	}
	return stats
}
