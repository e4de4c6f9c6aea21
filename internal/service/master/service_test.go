package master

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/master/category"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/department"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/leavetype"
	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

type fakeCategoryRepo struct {
	category.CategoryRepository
	created   category.Category
	updated   category.UpdateCategoryRequest
	stored    category.Category
	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeCategoryRepo) Create(_ context.Context, c category.Category) (category.Category, error) {
	if f.createErr != nil {
		return category.Category{}, f.createErr
	}
	c.ID = "cat-1"
	f.created = c
	f.stored = c
	return c, nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id string) (category.Category, error) {
	if f.stored.ID != id {
		return category.Category{}, pgx.ErrNoRows
	}
	return f.stored, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, req category.UpdateCategoryRequest) error {
	f.updated = req
	return f.updateErr
}

func (f *fakeCategoryRepo) Delete(context.Context, string) error { return f.deleteErr }

type fakeDepartmentRepo struct {
	department.DepartmentRepository
}

type fakeLeaveTypeRepo struct {
	leavetype.LeaveTypeRepository
	created   leavetype.LeaveType
	createErr error
}

func (f *fakeLeaveTypeRepo) Create(_ context.Context, lt leavetype.LeaveType) (leavetype.LeaveType, error) {
	if f.createErr != nil {
		return leavetype.LeaveType{}, f.createErr
	}
	lt.ID = "lt-1"
	f.created = lt
	return lt, nil
}

type fakeReportCache struct {
	report.ReportCache
	cleared int
}

func (c *fakeReportCache) InvalidateAll(context.Context) error {
	c.cleared++
	return nil
}

func strPtr(s string) *string { return &s }

func TestCreateCategory_NormalizesTimes(t *testing.T) {
	repo := &fakeCategoryRepo{}
	svc := NewMasterService(repo, &fakeDepartmentRepo{}, &fakeLeaveTypeRepo{}, &fakeReportCache{}, zap.NewNop())

	resp, err := svc.CreateCategory(context.Background(), category.CreateCategoryRequest{
		Name:    "Staff",
		TimeIn:  strPtr("9:5"),
		TimeOut: strPtr(" 18:00 "),
	})
	require.NoError(t, err)
	assert.Equal(t, "cat-1", resp.ID)
	assert.Equal(t, "09:05", *repo.created.TimeIn)
	assert.Equal(t, "18:00", *repo.created.TimeOut)
	assert.Nil(t, repo.created.BreakHours)
}

func TestCreateCategory_Validation(t *testing.T) {
	svc := NewMasterService(&fakeCategoryRepo{}, &fakeDepartmentRepo{}, &fakeLeaveTypeRepo{}, &fakeReportCache{}, zap.NewNop())

	_, err := svc.CreateCategory(context.Background(), category.CreateCategoryRequest{
		Name:   "",
		TimeIn: strPtr("nine"),
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "name")
	assert.Contains(t, verrs.ToMap(), "time_in")
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	repo := &fakeCategoryRepo{createErr: &pgconn.PgError{Code: "23505"}}
	svc := NewMasterService(repo, &fakeDepartmentRepo{}, &fakeLeaveTypeRepo{}, &fakeReportCache{}, zap.NewNop())

	_, err := svc.CreateCategory(context.Background(), category.CreateCategoryRequest{Name: "Staff"})
	assert.ErrorIs(t, err, category.ErrCategoryNameExists)
}

func TestUpdateCategory(t *testing.T) {
	repo := &fakeCategoryRepo{stored: category.Category{ID: "cat-1", Name: "Staff"}}
	svc := NewMasterService(repo, &fakeDepartmentRepo{}, &fakeLeaveTypeRepo{}, &fakeReportCache{}, zap.NewNop())

	_, err := svc.UpdateCategory(context.Background(), category.UpdateCategoryRequest{
		ID:      "cat-1",
		TimeIn:  strPtr("8:30"),
		TimeOut: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "08:30", *repo.updated.TimeIn)
	assert.Equal(t, "", *repo.updated.TimeOut)
	assert.Nil(t, repo.updated.Name)

	repo.updateErr = pgx.ErrNoRows
	_, err = svc.UpdateCategory(context.Background(), category.UpdateCategoryRequest{ID: "missing"})
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestUpdateCategory_ScheduleChangeClearsReports(t *testing.T) {
	repo := &fakeCategoryRepo{stored: category.Category{ID: "cat-1", Name: "Staff"}}
	cache := &fakeReportCache{}
	svc := NewMasterService(repo, &fakeDepartmentRepo{}, &fakeLeaveTypeRepo{}, cache, zap.NewNop())
	ctx := context.Background()

	_, err := svc.UpdateCategory(ctx, category.UpdateCategoryRequest{ID: "cat-1", Name: strPtr("Office Staff")})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.cleared)

	_, err = svc.UpdateCategory(ctx, category.UpdateCategoryRequest{ID: "cat-1", TimeOut: strPtr("17:30")})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.cleared)

	repo.updateErr = pgx.ErrNoRows
	_, err = svc.UpdateCategory(ctx, category.UpdateCategoryRequest{ID: "cat-1", TimeIn: strPtr("08:00")})
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	assert.Equal(t, 1, cache.cleared)
}

func TestDeleteCategory_InUse(t *testing.T) {
	repo := &fakeCategoryRepo{deleteErr: &pgconn.PgError{Code: "23503"}}
	svc := NewMasterService(repo, &fakeDepartmentRepo{}, &fakeLeaveTypeRepo{}, &fakeReportCache{}, zap.NewNop())

	assert.ErrorIs(t, svc.DeleteCategory(context.Background(), "cat-1"), category.ErrCategoryInUse)
}

func TestGetCategory_NotFound(t *testing.T) {
	svc := NewMasterService(&fakeCategoryRepo{}, &fakeDepartmentRepo{}, &fakeLeaveTypeRepo{}, &fakeReportCache{}, zap.NewNop())

	_, err := svc.GetCategory(context.Background(), "nope")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestCreateLeaveType(t *testing.T) {
	repo := &fakeLeaveTypeRepo{}
	svc := NewMasterService(&fakeCategoryRepo{}, &fakeDepartmentRepo{}, repo, &fakeReportCache{}, zap.NewNop())

	resp, err := svc.CreateLeaveType(context.Background(), leavetype.CreateLeaveTypeRequest{Name: "Casual Leave", Code: " cl ", IsPaid: true})
	require.NoError(t, err)
	assert.Equal(t, "CL", resp.Code)
	assert.Equal(t, "CL", repo.created.Code)

	repo.createErr = &pgconn.PgError{Code: "23505"}
	_, err = svc.CreateLeaveType(context.Background(), leavetype.CreateLeaveTypeRequest{Name: "Casual", Code: "CL"})
	assert.ErrorIs(t, err, leavetype.ErrLeaveTypeCodeExists)
}
