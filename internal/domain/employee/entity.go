package employee

import (
	"time"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	CategoryID   *string
	DepartmentID *string
	Status       Status
	JoinedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined for listings
	CategoryName   *string
	DepartmentName *string
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var StatusValues = []string{
	string(StatusActive),
	string(StatusInactive),
}

// IsActive reports whether the employee appears on timesheets.
func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
