package master

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/master/category"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/department"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/leavetype"
	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"
)

type MasterService interface {
	// Category operations
	CreateCategory(ctx context.Context, req category.CreateCategoryRequest) (category.CategoryResponse, error)
	GetCategory(ctx context.Context, id string) (category.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]category.CategoryResponse, error)
	UpdateCategory(ctx context.Context, req category.UpdateCategoryRequest) (category.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error

	// Department operations
	CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error)
	ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id string) error

	// Leave type operations
	CreateLeaveType(ctx context.Context, req leavetype.CreateLeaveTypeRequest) (leavetype.LeaveTypeResponse, error)
	GetLeaveType(ctx context.Context, id string) (leavetype.LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context) ([]leavetype.LeaveTypeResponse, error)
	UpdateLeaveType(ctx context.Context, req leavetype.UpdateLeaveTypeRequest) (leavetype.LeaveTypeResponse, error)
	DeleteLeaveType(ctx context.Context, id string) error
}

type masterServiceImpl struct {
	categoryRepo   category.CategoryRepository
	departmentRepo department.DepartmentRepository
	leaveTypeRepo  leavetype.LeaveTypeRepository
	reportCache    report.ReportCache
	logger         *zap.Logger
}

func NewMasterService(
	categoryRepo category.CategoryRepository,
	departmentRepo department.DepartmentRepository,
	leaveTypeRepo leavetype.LeaveTypeRepository,
	reportCache report.ReportCache,
	logger *zap.Logger,
) MasterService {
	return &masterServiceImpl{
		categoryRepo:   categoryRepo,
		departmentRepo: departmentRepo,
		leaveTypeRepo:  leaveTypeRepo,
		reportCache:    reportCache,
		logger:         logger,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// normalizeTime canonicalises a time field for storage; "" is kept so the
// repository can clear the column.
func normalizeTime(t *string) *string {
	if t == nil {
		return nil
	}
	n := timeofday.Normalize(*t)
	return &n
}

// ==================== CATEGORY OPERATIONS ====================

func toCategoryResponse(c category.Category) category.CategoryResponse {
	return category.CategoryResponse{
		ID:         c.ID,
		Name:       c.Name,
		TimeIn:     c.TimeIn,
		TimeOut:    c.TimeOut,
		BreakHours: c.BreakHours,
	}
}

func (s *masterServiceImpl) CreateCategory(ctx context.Context, req category.CreateCategoryRequest) (category.CategoryResponse, error) {
	if err := req.Validate(); err != nil {
		return category.CategoryResponse{}, err
	}

	entity := category.Category{
		Name:       req.Name,
		TimeIn:     timeofday.NormalizeNullable(req.TimeIn),
		TimeOut:    timeofday.NormalizeNullable(req.TimeOut),
		BreakHours: req.BreakHours,
	}

	created, err := s.categoryRepo.Create(ctx, entity)
	if err != nil {
		if isUniqueViolation(err) {
			return category.CategoryResponse{}, category.ErrCategoryNameExists
		}
		return category.CategoryResponse{}, fmt.Errorf("failed to create category: %w", err)
	}

	return toCategoryResponse(created), nil
}

func (s *masterServiceImpl) GetCategory(ctx context.Context, id string) (category.CategoryResponse, error) {
	entity, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.CategoryResponse{}, category.ErrCategoryNotFound
		}
		return category.CategoryResponse{}, err
	}
	return toCategoryResponse(entity), nil
}

func (s *masterServiceImpl) ListCategories(ctx context.Context) ([]category.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]category.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, toCategoryResponse(c))
	}
	return responses, nil
}

func (s *masterServiceImpl) UpdateCategory(ctx context.Context, req category.UpdateCategoryRequest) (category.CategoryResponse, error) {
	if err := req.Validate(); err != nil {
		return category.CategoryResponse{}, err
	}
	req.TimeIn = normalizeTime(req.TimeIn)
	req.TimeOut = normalizeTime(req.TimeOut)

	if err := s.categoryRepo.Update(ctx, req); err != nil {
		if isUniqueViolation(err) {
			return category.CategoryResponse{}, category.ErrCategoryNameExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return category.CategoryResponse{}, category.ErrCategoryNotFound
		}
		return category.CategoryResponse{}, err
	}

	// Category defaults have no history, so a change reaches every past month.
	if req.TimeIn != nil || req.TimeOut != nil || req.BreakHours != nil {
		if err := s.reportCache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("failed to invalidate report cache",
				zap.String("category_id", req.ID), zap.Error(err))
		}
	}

	return s.GetCategory(ctx, req.ID)
}

func (s *masterServiceImpl) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.ErrCategoryNotFound
		}
		if isForeignKeyViolation(err) {
			return category.ErrCategoryInUse
		}
		return err
	}
	return nil
}

// ==================== DEPARTMENT OPERATIONS ====================

func (s *masterServiceImpl) CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	created, err := s.departmentRepo.Create(ctx, department.Department{Name: req.Name})
	if err != nil {
		if isUniqueViolation(err) {
			return department.DepartmentResponse{}, department.ErrDepartmentNameExists
		}
		return department.DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}

	return department.DepartmentResponse{ID: created.ID, Name: created.Name}, nil
}

func (s *masterServiceImpl) GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error) {
	entity, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.DepartmentResponse{}, department.ErrDepartmentNotFound
		}
		return department.DepartmentResponse{}, err
	}
	return department.DepartmentResponse{ID: entity.ID, Name: entity.Name}, nil
}

func (s *masterServiceImpl) ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, department.DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return responses, nil
}

func (s *masterServiceImpl) UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	if err := s.departmentRepo.Update(ctx, req); err != nil {
		if isUniqueViolation(err) {
			return department.DepartmentResponse{}, department.ErrDepartmentNameExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return department.DepartmentResponse{}, department.ErrDepartmentNotFound
		}
		return department.DepartmentResponse{}, err
	}

	return s.GetDepartment(ctx, req.ID)
}

func (s *masterServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.departmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.ErrDepartmentNotFound
		}
		if isForeignKeyViolation(err) {
			return department.ErrDepartmentInUse
		}
		return err
	}
	return nil
}

// ==================== LEAVE TYPE OPERATIONS ====================

func toLeaveTypeResponse(lt leavetype.LeaveType) leavetype.LeaveTypeResponse {
	return leavetype.LeaveTypeResponse{
		ID:     lt.ID,
		Name:   lt.Name,
		Code:   lt.Code,
		IsPaid: lt.IsPaid,
	}
}

func (s *masterServiceImpl) CreateLeaveType(ctx context.Context, req leavetype.CreateLeaveTypeRequest) (leavetype.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leavetype.LeaveTypeResponse{}, err
	}

	created, err := s.leaveTypeRepo.Create(ctx, leavetype.LeaveType{
		Name:   req.Name,
		Code:   req.Code,
		IsPaid: req.IsPaid,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return leavetype.LeaveTypeResponse{}, leavetype.ErrLeaveTypeCodeExists
		}
		return leavetype.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return toLeaveTypeResponse(created), nil
}

func (s *masterServiceImpl) GetLeaveType(ctx context.Context, id string) (leavetype.LeaveTypeResponse, error) {
	entity, err := s.leaveTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leavetype.LeaveTypeResponse{}, leavetype.ErrLeaveTypeNotFound
		}
		return leavetype.LeaveTypeResponse{}, err
	}
	return toLeaveTypeResponse(entity), nil
}

func (s *masterServiceImpl) ListLeaveTypes(ctx context.Context) ([]leavetype.LeaveTypeResponse, error) {
	leaveTypes, err := s.leaveTypeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]leavetype.LeaveTypeResponse, 0, len(leaveTypes))
	for _, lt := range leaveTypes {
		responses = append(responses, toLeaveTypeResponse(lt))
	}
	return responses, nil
}

func (s *masterServiceImpl) UpdateLeaveType(ctx context.Context, req leavetype.UpdateLeaveTypeRequest) (leavetype.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leavetype.LeaveTypeResponse{}, err
	}

	if err := s.leaveTypeRepo.Update(ctx, req); err != nil {
		if isUniqueViolation(err) {
			return leavetype.LeaveTypeResponse{}, leavetype.ErrLeaveTypeCodeExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return leavetype.LeaveTypeResponse{}, leavetype.ErrLeaveTypeNotFound
		}
		return leavetype.LeaveTypeResponse{}, err
	}

	return s.GetLeaveType(ctx, req.ID)
}

func (s *masterServiceImpl) DeleteLeaveType(ctx context.Context, id string) error {
	if err := s.leaveTypeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leavetype.ErrLeaveTypeNotFound
		}
		if isForeignKeyViolation(err) {
			return leavetype.ErrLeaveTypeInUse
		}
		return err
	}
	return nil
}
