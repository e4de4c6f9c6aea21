package employee

import (
	"strings"
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeCode   string  `json:"employee_code"`
	FullName       string  `json:"full_name"`
	CategoryID     *string `json:"category_id,omitempty"`
	CategoryName   *string `json:"category_name,omitempty"`
	DepartmentID   *string `json:"department_id,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
	Status         string  `json:"status"`
	JoinedAt       *string `json:"joined_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID,
		EmployeeCode:   e.EmployeeCode,
		FullName:       e.FullName,
		CategoryID:     e.CategoryID,
		CategoryName:   e.CategoryName,
		DepartmentID:   e.DepartmentID,
		DepartmentName: e.DepartmentName,
		Status:         string(e.Status),
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.Format(time.RFC3339),
	}
	if e.JoinedAt != nil {
		joined := e.JoinedAt.Format("2006-01-02")
		resp.JoinedAt = &joined
	}
	return resp
}

type CreateEmployeeRequest struct {
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	CategoryID   *string `json:"category_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Status       string  `json:"status"`
	JoinedAt     *string `json:"joined_at,omitempty"` // YYYY-MM-DD

	ParsedJoinedAt *time.Time `json:"-"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must be 2-20 letters, digits or dashes",
		})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}
	if len(r.FullName) > 150 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 150 characters",
		})
	}
	if r.Status == "" {
		r.Status = string(StatusActive)
	}
	if !validator.IsInSlice(r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}
	errs = validateOptionalID(errs, "category_id", r.CategoryID)
	errs = validateOptionalID(errs, "department_id", r.DepartmentID)

	if r.JoinedAt != nil && *r.JoinedAt != "" {
		if d, ok := validator.IsValidDate(*r.JoinedAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "joined_at",
				Message: "joined_at must be in YYYY-MM-DD format",
			})
		} else if d.After(time.Now()) {
			errs = append(errs, validator.ValidationError{
				Field:   "joined_at",
				Message: ErrFutureDateNotAllowed.Error(),
			})
		} else {
			r.ParsedJoinedAt = &d
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest applies only the fields that are set.
type UpdateEmployeeRequest struct {
	ID           string  `json:"-"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	FullName     *string `json:"full_name,omitempty"`
	CategoryID   *string `json:"category_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Status       *string `json:"status,omitempty"`
	JoinedAt     *string `json:"joined_at,omitempty"`

	ParsedJoinedAt *time.Time `json:"-"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.EmployeeCode != nil {
		code := strings.TrimSpace(*r.EmployeeCode)
		r.EmployeeCode = &code
		if !validator.IsValidEmployeeCode(code) {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_code",
				Message: "employee_code must be 2-20 letters, digits or dashes",
			})
		}
	}
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}
	errs = validateOptionalID(errs, "category_id", r.CategoryID)
	errs = validateOptionalID(errs, "department_id", r.DepartmentID)

	if r.JoinedAt != nil && *r.JoinedAt != "" {
		if d, ok := validator.IsValidDate(*r.JoinedAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "joined_at",
				Message: "joined_at must be in YYYY-MM-DD format",
			})
		} else {
			r.ParsedJoinedAt = &d
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the set fields onto e.
func (r UpdateEmployeeRequest) Apply(e *Employee) {
	if r.EmployeeCode != nil {
		e.EmployeeCode = *r.EmployeeCode
	}
	if r.FullName != nil {
		e.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.CategoryID != nil {
		e.CategoryID = emptyToNil(*r.CategoryID)
	}
	if r.DepartmentID != nil {
		e.DepartmentID = emptyToNil(*r.DepartmentID)
	}
	if r.Status != nil {
		e.Status = Status(*r.Status)
	}
	if r.JoinedAt != nil {
		e.JoinedAt = r.ParsedJoinedAt
	}
}

type EmployeeFilter struct {
	Search       *string `json:"search,omitempty"`
	CategoryID   *string `json:"category_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Status       *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

func validateOptionalID(errs validator.ValidationErrors, field string, id *string) validator.ValidationErrors {
	if id == nil || *id == "" {
		return errs
	}
	if !validator.IsValidUUID(*id) {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: field + " must be a valid UUID",
		})
	}
	return errs
}

func emptyToNil(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
