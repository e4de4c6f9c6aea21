package employee

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/employee"
)

const categoryID = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	byID          map[string]employee.Employee
	seq           int
	hasAttendance map[string]bool
}

func newFakeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{byID: map[string]employee.Employee{}, hasAttendance: map[string]bool{}}
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return employee.Employee{}, pgx.ErrNoRows
	}
	return e, nil
}

func (r *fakeEmployeeRepo) GetByEmployeeCode(_ context.Context, code string) (employee.Employee, error) {
	for _, e := range r.byID {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	if e.CategoryID != nil && *e.CategoryID != categoryID {
		return employee.Employee{}, &pgconn.PgError{Code: "23503"}
	}
	r.seq++
	e.ID = fmt.Sprintf("e%d", r.seq)
	r.byID[e.ID] = e
	return e, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e employee.Employee) error {
	if _, ok := r.byID[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.byID[e.ID] = e
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	if r.hasAttendance[id] {
		return &pgconn.PgError{Code: "23503"}
	}
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	var out []employee.Employee
	for _, e := range r.byID {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func strPtr(s string) *string { return &s }

func TestCreateEmployee(t *testing.T) {
	repo := newFakeRepo()
	svc := NewEmployeeService(repo, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: " TW-001 ",
		FullName:     "Asha Rao",
		CategoryID:   strPtr(categoryID),
		JoinedAt:     strPtr("2023-04-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "TW-001", resp.EmployeeCode)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "2023-04-01", *resp.JoinedAt)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{EmployeeCode: "TW-001", FullName: "Other"})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "TW-002",
		FullName:     "Ravi",
		CategoryID:   strPtr("0190a1b2-c3d4-7e5f-8a9b-000000000000"),
	})
	assert.ErrorIs(t, err, employee.ErrInvalidReference)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{EmployeeCode: "x", FullName: ""})
	assert.Error(t, err)
}

func TestUpdateEmployee(t *testing.T) {
	repo := newFakeRepo()
	repo.byID["e1"] = employee.Employee{ID: "e1", EmployeeCode: "TW-001", FullName: "Asha", Status: employee.StatusActive}
	repo.byID["e2"] = employee.Employee{ID: "e2", EmployeeCode: "TW-002", FullName: "Ravi", Status: employee.StatusActive}
	svc := NewEmployeeService(repo, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "e1", Status: strPtr("inactive")})
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)
	assert.Equal(t, "Asha", resp.FullName)

	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "e1", EmployeeCode: strPtr("TW-002")})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "missing", FullName: strPtr("X")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDeleteEmployee(t *testing.T) {
	repo := newFakeRepo()
	repo.byID["e1"] = employee.Employee{ID: "e1"}
	repo.byID["e2"] = employee.Employee{ID: "e2"}
	repo.hasAttendance["e2"] = true
	svc := NewEmployeeService(repo, zap.NewNop())

	assert.NoError(t, svc.DeleteEmployee(context.Background(), "e1"))
	assert.ErrorIs(t, svc.DeleteEmployee(context.Background(), "e1"), employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, svc.DeleteEmployee(context.Background(), "e2"), employee.ErrEmployeeHasAttendance)
}

func TestListEmployees_Pagination(t *testing.T) {
	repo := newFakeRepo()
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("e%d", i)
		repo.byID[id] = employee.Employee{ID: id, EmployeeCode: fmt.Sprintf("TW-%03d", i), Status: employee.StatusActive}
	}
	svc := NewEmployeeService(repo, zap.NewNop())

	resp, err := svc.ListEmployees(context.Background(), employee.EmployeeFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)

	_, err = svc.ListEmployees(context.Background(), employee.EmployeeFilter{Limit: 500})
	assert.Error(t, err)
}
