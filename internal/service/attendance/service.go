package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/employee"
	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/leavetype"
	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"
	"github.com/truewood-ems/ems-backend-go/internal/repository/postgresql"
	"github.com/truewood-ems/ems-backend-go/internal/service/timesheet"
)

// CalendarProvider supplies holidays and weekly offs.
type CalendarProvider interface {
	GetCalendar(ctx context.Context, start, end time.Time) (holiday.Calendar, error)
}

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaveTypeRepo  leavetype.LeaveTypeRepository
	calendar       CalendarProvider
	reportCache    report.ReportCache
	tx             postgresql.Transactor
	logger         *zap.Logger
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveTypeRepo leavetype.LeaveTypeRepository,
	calendar CalendarProvider,
	reportCache report.ReportCache,
	tx postgresql.Transactor,
	logger *zap.Logger,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaveTypeRepo:  leaveTypeRepo,
		calendar:       calendar,
		reportCache:    reportCache,
		tx:             tx,
		logger:         logger,
	}
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// invalidate drops cached reports for the working months containing dates.
func (s *AttendanceServiceImpl) invalidate(ctx context.Context, dates ...time.Time) {
	done := make(map[string]bool, 1)
	for _, d := range dates {
		year, month := timesheet.WorkingMonthOf(d)
		key := report.MonthlyCacheKey(year, int(month))
		if done[key] {
			continue
		}
		done[key] = true
		if err := s.reportCache.Invalidate(ctx, year, int(month)); err != nil {
			s.logger.Warn("failed to invalidate report cache",
				zap.Int("year", year), zap.Int("month", int(month)), zap.Error(err))
		}
	}
}

// checkReferences verifies the employee is active and the leave type exists.
func (s *AttendanceServiceImpl) checkReferences(ctx context.Context, req attendance.MarkAttendanceRequest) error {
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive() {
		return attendance.ErrEmployeeInactive
	}

	if req.LeaveTypeID != nil {
		if _, err := s.leaveTypeRepo.GetByID(ctx, *req.LeaveTypeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return leavetype.ErrLeaveTypeNotFound
			}
			return fmt.Errorf("failed to get leave type: %w", err)
		}
	}
	return nil
}

func toEntity(req attendance.MarkAttendanceRequest) attendance.Attendance {
	a := req.ToEntity()
	a.TimeIn = timeofday.NormalizeNullable(a.TimeIn)
	a.TimeOut = timeofday.NormalizeNullable(a.TimeOut)
	return a
}

func mapWriteError(err error) error {
	if isForeignKeyViolation(err) {
		return attendance.ErrInvalidReference
	}
	return err
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	saved, err := s.attendanceRepo.Upsert(ctx, toEntity(req))
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return attendance.AttendanceResponse{}, mapped
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	s.invalidate(ctx, saved.Date)
	return attendance.NewAttendanceResponse(saved), nil
}

// BulkMarkAttendance implements attendance.AttendanceService. Either every
// entry is written or none is.
func (s *AttendanceServiceImpl) BulkMarkAttendance(ctx context.Context, req attendance.BulkMarkAttendanceRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(req.Requests))
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, r := range req.Requests {
			if err := s.checkReferences(txCtx, r); err != nil {
				return fmt.Errorf("employee %s: %w", r.EmployeeID, err)
			}
			saved, err := s.attendanceRepo.Upsert(txCtx, toEntity(r))
			if err != nil {
				if mapped := mapWriteError(err); mapped != err {
					return fmt.Errorf("employee %s: %w", r.EmployeeID, mapped)
				}
				return fmt.Errorf("failed to mark attendance for employee %s: %w", r.EmployeeID, err)
			}
			responses = append(responses, attendance.NewAttendanceResponse(saved))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.Requests[0].ParsedDate)
	s.logger.Info("bulk attendance marked",
		zap.String("date", req.Date),
		zap.Int("count", len(responses)),
	)
	return responses, nil
}

// UpdateTimes implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateTimes(ctx context.Context, req attendance.UpdateTimesRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if !existing.IsPresent() {
		return attendance.AttendanceResponse{}, attendance.ErrTimesRequirePresent
	}

	updated, err := s.attendanceRepo.UpdateTimes(ctx, req.ID,
		timeofday.NormalizeNullable(req.TimeIn),
		timeofday.NormalizeNullable(req.TimeOut),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update times: %w", err)
	}

	s.invalidate(ctx, updated.Date)
	return attendance.NewAttendanceResponse(updated), nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	a, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return attendance.NewAttendanceResponse(a), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListBetween(ctx, filter.Start, filter.End, filter.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, a := range records {
		responses = append(responses, attendance.NewAttendanceResponse(a))
	}
	return responses, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	existing, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to get attendance: %w", err)
	}

	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	s.invalidate(ctx, existing.Date)
	return nil
}

// MarkAbsentees implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsentees(ctx context.Context, date time.Time) (int, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	cal, err := s.calendar.GetCalendar(ctx, day, day)
	if err != nil {
		return 0, fmt.Errorf("failed to load calendar: %w", err)
	}
	if !cal.IsWorkingDay(day) {
		s.logger.Info("skipping absentee marking on non-working day", zap.String("date", day.Format("2006-01-02")))
		return 0, nil
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees: %w", err)
	}
	marked, err := s.attendanceRepo.ListEmployeeIDsOn(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list marked employees: %w", err)
	}
	hasRecord := make(map[string]bool, len(marked))
	for _, id := range marked {
		hasRecord[id] = true
	}

	written := 0
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, emp := range employees {
			if hasRecord[emp.ID] {
				continue
			}
			if emp.JoinedAt != nil && emp.JoinedAt.After(day) {
				continue
			}
			// a record may have been marked since the list above
			current, err := s.attendanceRepo.GetByEmployeeAndDate(txCtx, emp.ID, day)
			if err != nil {
				return fmt.Errorf("failed to check attendance for employee %s: %w", emp.ID, err)
			}
			if current != nil {
				continue
			}
			_, err = s.attendanceRepo.Upsert(txCtx, attendance.Attendance{
				EmployeeID: emp.ID,
				Date:       day,
				Status:     attendance.StatusAbsent,
			})
			if err != nil {
				return fmt.Errorf("failed to mark employee %s absent: %w", emp.ID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if written > 0 {
		s.invalidate(ctx, day)
	}
	return written, nil
}
