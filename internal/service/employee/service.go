package employee

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	logger       *zap.Logger
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, logger *zap.Logger) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapWriteError translates constraint violations raised by employee writes.
func mapWriteError(err error) error {
	switch pgErrorCode(err) {
	case "23505":
		return employee.ErrEmployeeCodeExists
	case "23503":
		return employee.ErrInvalidReference
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}
	return err
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.employeeRepo.GetByEmployeeCode(ctx, req.EmployeeCode); err == nil {
		return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee code: %w", err)
	}

	newEmployee := employee.Employee{
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		CategoryID:   nonEmpty(req.CategoryID),
		DepartmentID: nonEmpty(req.DepartmentID),
		Status:       employee.Status(req.Status),
		JoinedAt:     req.ParsedJoinedAt,
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return employee.EmployeeResponse{}, mapped
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("employee created",
		zap.String("employee_id", created.ID),
		zap.String("employee_code", created.EmployeeCode),
	)

	// re-read to pick up joined category and department names
	return s.GetEmployee(ctx, created.ID)
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.NewEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if req.EmployeeCode != nil && *req.EmployeeCode != existing.EmployeeCode {
		if other, err := s.employeeRepo.GetByEmployeeCode(ctx, *req.EmployeeCode); err == nil && other.ID != existing.ID {
			return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
		}
	}

	previousStatus := existing.Status
	req.Apply(&existing)

	if err := s.employeeRepo.Update(ctx, existing); err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return employee.EmployeeResponse{}, mapped
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	if previousStatus != existing.Status {
		s.logger.Info("employee status changed",
			zap.String("employee_id", existing.ID),
			zap.String("from", string(previousStatus)),
			zap.String("to", string(existing.Status)),
		)
	}

	return s.GetEmployee(ctx, existing.ID)
}

// DeleteEmployee implements employee.EmployeeService. Employees with
// attendance records must be deactivated instead.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		if pgErrorCode(err) == "23503" {
			return employee.ErrEmployeeHasAttendance
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
