package timesheet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/employee"
	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/category"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/leavetype"
	"github.com/truewood-ems/ems-backend-go/internal/domain/timesheet"
	"github.com/truewood-ems/ems-backend-go/internal/domain/worksite"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const uncategorized = "Uncategorized"

type TimesheetServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	categoryRepo   category.CategoryRepository
	workSiteRepo   worksite.WorkSiteRepository
	historyRepo    worksite.ScheduleHistoryRepository
	attendanceRepo attendance.AttendanceRepository
	leaveTypeRepo  leavetype.LeaveTypeRepository
	holidayRepo    holiday.HolidayRepository
	weeklyOffRepo  holiday.WeeklyOffRepository
	logger         *zap.Logger
}

func NewTimesheetService(
	employeeRepo employee.EmployeeRepository,
	categoryRepo category.CategoryRepository,
	workSiteRepo worksite.WorkSiteRepository,
	historyRepo worksite.ScheduleHistoryRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveTypeRepo leavetype.LeaveTypeRepository,
	holidayRepo holiday.HolidayRepository,
	weeklyOffRepo holiday.WeeklyOffRepository,
	logger *zap.Logger,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		employeeRepo:   employeeRepo,
		categoryRepo:   categoryRepo,
		workSiteRepo:   workSiteRepo,
		historyRepo:    historyRepo,
		attendanceRepo: attendanceRepo,
		leaveTypeRepo:  leaveTypeRepo,
		holidayRepo:    holidayRepo,
		weeklyOffRepo:  weeklyOffRepo,
		logger:         logger,
	}
}

// snapshot is everything a timesheet over one period needs, fetched up front.
type snapshot struct {
	employees  []employee.Employee
	categories map[string]category.Category
	workSites  map[string]worksite.WorkSite
	leaveTypes map[string]leavetype.LeaveType
	schedule   *ScheduleContext
	calendar   holiday.Calendar
	records    map[string]map[string]attendance.Attendance // employee id -> YYYY-MM-DD -> record
}

// load fetches the data for period. When emp is set only that employee is loaded.
func (s *TimesheetServiceImpl) load(ctx context.Context, period Period, emp *employee.Employee) (*snapshot, error) {
	var (
		employees  []employee.Employee
		categories []category.Category
		workSites  []worksite.WorkSite
		history    []worksite.ScheduleHistory
		records    []attendance.Attendance
		leaveTypes []leavetype.LeaveType
		holidays   []holiday.Holiday
		weeklyOffs []holiday.WeeklyOff
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if emp != nil {
			employees = []employee.Employee{*emp}
			return nil
		}
		var err error
		employees, err = s.employeeRepo.ListActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		workSites, err = s.workSiteRepo.List(gCtx, worksite.WorkSiteFilter{})
		if err != nil {
			return fmt.Errorf("failed to list work sites: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = s.historyRepo.ListEffectiveUntil(gCtx, period.End)
		if err != nil {
			return fmt.Errorf("failed to list schedule history: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var employeeID *string
		if emp != nil {
			employeeID = &emp.ID
		}
		var err error
		records, err = s.attendanceRepo.ListBetween(gCtx, period.Start, period.End, employeeID)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		leaveTypes, err = s.leaveTypeRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list leave types: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		holidays, err = s.holidayRepo.ListBetween(gCtx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		weeklyOffs, err = s.weeklyOffRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list weekly offs: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("timesheet data load failed",
			zap.Time("period_start", period.Start),
			zap.Time("period_end", period.End),
			zap.Error(err),
		)
		return nil, err
	}

	snap := &snapshot{
		employees:  employees,
		categories: make(map[string]category.Category, len(categories)),
		workSites:  make(map[string]worksite.WorkSite, len(workSites)),
		leaveTypes: make(map[string]leavetype.LeaveType, len(leaveTypes)),
		schedule:   NewScheduleContext(categories, workSites, history),
		calendar:   holiday.NewCalendar(holidays, weeklyOffs),
		records:    make(map[string]map[string]attendance.Attendance),
	}
	for _, c := range categories {
		snap.categories[c.ID] = c
	}
	for _, w := range workSites {
		snap.workSites[w.ID] = w
	}
	for _, lt := range leaveTypes {
		snap.leaveTypes[lt.ID] = lt
	}
	for _, r := range records {
		byDate, ok := snap.records[r.EmployeeID]
		if !ok {
			byDate = make(map[string]attendance.Attendance)
			snap.records[r.EmployeeID] = byDate
		}
		byDate[r.DateKey()] = r
	}

	sortEmployees(snap.employees, snap.categories)
	return snap, nil
}

func (snap *snapshot) categoryName(emp employee.Employee) string {
	if emp.CategoryID != nil {
		if c, ok := snap.categories[*emp.CategoryID]; ok {
			return c.Name
		}
	}
	return uncategorized
}

func (snap *snapshot) record(employeeID string, date time.Time) *attendance.Attendance {
	r, ok := snap.records[employeeID][date.Format("2006-01-02")]
	if !ok {
		return nil
	}
	return &r
}

// row computes one grid cell and folds it into summary.
func (snap *snapshot) row(emp employee.Employee, date time.Time, summary *timesheet.MonthlySummary) timesheet.TimesheetRow {
	rec := snap.record(emp.ID, date)
	comp := ComputeDay(snap.schedule, emp, rec, date)

	row := timesheet.TimesheetRow{
		EmployeeID:           emp.ID,
		EmployeeCode:         emp.EmployeeCode,
		EmployeeName:         emp.FullName,
		Date:                 date.Format("2006-01-02"),
		Weekday:              date.Weekday().String(),
		ExpectedTimeIn:       timeofday.Format(comp.Expected.Start),
		ExpectedTimeOut:      timeofday.Format(comp.Expected.End),
		ExpectedBreakMinutes: comp.Expected.BreakMinutes,
		TimeIn:               timeofday.Format(comp.ActualDisplay.Start),
		TimeOut:              timeofday.Format(comp.ActualDisplay.End),
		WorkedMinutes:        comp.WorkedMinutes,
		OvertimeMinutes:      comp.OvertimeMinutes,
		WorkedDisplay:        FormatWorked(comp.WorkedMinutes),
		OvertimeDisplay:      FormatOvertime(comp.OvertimeMinutes),
	}

	h, isHoliday := snap.calendar.HolidayOn(date)
	if isHoliday {
		name := h.Name
		row.HolidayName = &name
	}

	if rec == nil {
		switch {
		case isHoliday:
			row.Code = timesheet.CodeHoliday
			summary.Holiday++
		case snap.calendar.IsWeeklyOff(date):
			row.Code = timesheet.CodeWeeklyOff
			summary.WeeklyOff++
		default:
			row.Code = timesheet.CodeUnmarked
			summary.Unmarked++
		}
		return row
	}

	id, status := rec.ID, string(rec.Status)
	row.AttendanceID = &id
	row.Status = &status
	row.LeaveTypeID = rec.LeaveTypeID
	row.WorkSiteID = rec.WorkSiteID
	row.HasRecordedTimes = rec.TimeIn != nil || rec.TimeOut != nil
	if rec.WorkSiteID != nil {
		if w, ok := snap.workSites[*rec.WorkSiteID]; ok {
			name := w.Name
			row.WorkSiteName = &name
		}
	}

	switch rec.Status {
	case attendance.StatusPresent:
		row.Code = timesheet.CodePresent
		summary.Present++
		if comp.WorkedMinutes != nil {
			summary.TotalWorkedMinutes += *comp.WorkedMinutes
		}
		if comp.OvertimeMinutes != nil {
			summary.TotalOvertimeMinutes += *comp.OvertimeMinutes
		} else {
			summary.UndefinedOvertimeDays++
		}
	case attendance.StatusAbsent:
		row.Code = timesheet.CodeAbsent
		summary.Absent++
	case attendance.StatusLeave:
		code := timesheet.CodeLeave
		if rec.LeaveTypeID != nil {
			if lt, ok := snap.leaveTypes[*rec.LeaveTypeID]; ok {
				code = lt.Code
			}
		}
		row.Code = code
		row.LeaveCode = &code
		summary.Leave++
		summary.LeaveByCode[code]++
	}

	return row
}

func (snap *snapshot) employeeTimesheet(emp employee.Employee, days []time.Time) timesheet.EmployeeTimesheet {
	et := timesheet.EmployeeTimesheet{
		EmployeeID:     emp.ID,
		EmployeeCode:   emp.EmployeeCode,
		EmployeeName:   emp.FullName,
		CategoryName:   snap.categoryName(emp),
		DepartmentName: emp.DepartmentName,
		Rows:           make([]timesheet.TimesheetRow, 0, len(days)),
		Summary:        timesheet.MonthlySummary{LeaveByCode: make(map[string]int)},
	}
	for _, d := range days {
		et.Rows = append(et.Rows, snap.row(emp, d, &et.Summary))
	}
	et.Summary.TotalWorkedDisplay = FormatTotal(et.Summary.TotalWorkedMinutes)
	et.Summary.TotalOvertimeDisplay = FormatTotal(et.Summary.TotalOvertimeMinutes)
	return et
}

func (snap *snapshot) dayHeaders(days []time.Time) []timesheet.DayHeader {
	headers := make([]timesheet.DayHeader, 0, len(days))
	for _, d := range days {
		h := timesheet.DayHeader{
			Date:        d.Format("2006-01-02"),
			Day:         d.Day(),
			Weekday:     d.Weekday().String()[:3],
			IsSunday:    isSunday(d),
			IsWeeklyOff: snap.calendar.IsWeeklyOff(d),
		}
		if hol, ok := snap.calendar.HolidayOn(d); ok {
			name := hol.Name
			h.IsHoliday = true
			h.HolidayName = &name
		}
		headers = append(headers, h)
	}
	return headers
}

// GetDailyTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetDailyTimesheet(ctx context.Context, req timesheet.DailyTimesheetRequest) (timesheet.DailyTimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.DailyTimesheetResponse{}, err
	}

	date := req.ParsedDate
	snap, err := s.load(ctx, Period{Start: date, End: date}, nil)
	if err != nil {
		return timesheet.DailyTimesheetResponse{}, err
	}

	resp := timesheet.DailyTimesheetResponse{
		Date:        date.Format("2006-01-02"),
		Weekday:     date.Weekday().String(),
		IsSunday:    isSunday(date),
		IsWeeklyOff: snap.calendar.IsWeeklyOff(date),
		Groups:      []timesheet.CategoryGroup{},
	}
	if h, ok := snap.calendar.HolidayOn(date); ok {
		name := h.Name
		resp.IsHoliday = true
		resp.HolidayName = &name
	}

	// employees are already ordered by category name, so groups form in order
	var scratch timesheet.MonthlySummary
	scratch.LeaveByCode = make(map[string]int)
	for _, emp := range snap.employees {
		name := snap.categoryName(emp)
		if n := len(resp.Groups); n == 0 || resp.Groups[n-1].CategoryName != name {
			resp.Groups = append(resp.Groups, timesheet.CategoryGroup{
				CategoryID:   emp.CategoryID,
				CategoryName: name,
			})
		}
		g := &resp.Groups[len(resp.Groups)-1]
		g.Rows = append(g.Rows, snap.row(emp, date, &scratch))
	}

	return resp, nil
}

// GetMonthlyTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetMonthlyTimesheet(ctx context.Context, req timesheet.MonthlyTimesheetRequest) (timesheet.MonthlyTimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.MonthlyTimesheetResponse{}, err
	}

	period := WorkingMonth(req.Year, time.Month(req.Month))
	snap, err := s.load(ctx, period, nil)
	if err != nil {
		return timesheet.MonthlyTimesheetResponse{}, err
	}

	days := period.Days()
	resp := timesheet.MonthlyTimesheetResponse{
		Year:      req.Year,
		Month:     req.Month,
		StartDate: period.Start.Format("2006-01-02"),
		EndDate:   period.End.Format("2006-01-02"),
		Days:      snap.dayHeaders(days),
		Employees: make([]timesheet.EmployeeTimesheet, 0, len(snap.employees)),
	}
	for _, emp := range snap.employees {
		resp.Employees = append(resp.Employees, snap.employeeTimesheet(emp, days))
	}

	return resp, nil
}

// GetEmployeeTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetEmployeeTimesheet(ctx context.Context, req timesheet.EmployeeTimesheetRequest) (timesheet.EmployeeTimesheet, error) {
	if err := req.Validate(); err != nil {
		return timesheet.EmployeeTimesheet{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, employee.ErrEmployeeNotFound) {
			return timesheet.EmployeeTimesheet{}, employee.ErrEmployeeNotFound
		}
		return timesheet.EmployeeTimesheet{}, fmt.Errorf("failed to get employee: %w", err)
	}

	period := WorkingMonth(req.Year, time.Month(req.Month))
	snap, err := s.load(ctx, period, &emp)
	if err != nil {
		return timesheet.EmployeeTimesheet{}, err
	}

	return snap.employeeTimesheet(emp, period.Days()), nil
}

// sortEmployees orders by category name then employee name, uncategorized last.
func sortEmployees(employees []employee.Employee, categories map[string]category.Category) {
	name := func(e employee.Employee) (string, bool) {
		if e.CategoryID != nil {
			if c, ok := categories[*e.CategoryID]; ok {
				return c.Name, true
			}
		}
		return "", false
	}
	sort.SliceStable(employees, func(i, j int) bool {
		ci, oki := name(employees[i])
		cj, okj := name(employees[j])
		if oki != okj {
			return oki
		}
		if ci != cj {
			return ci < cj
		}
		return employees[i].FullName < employees[j].FullName
	})
}
