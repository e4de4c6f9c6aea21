package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, employee Employee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	// ListActive returns every active employee, ordered by full name.
	ListActive(ctx context.Context) ([]Employee, error)
	// ListAll returns active and inactive employees, ordered by full name.
	ListAll(ctx context.Context) ([]Employee, error)
}
