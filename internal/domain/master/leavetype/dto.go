package leavetype

import (
	"strings"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

type LeaveTypeResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	IsPaid bool   `json:"is_paid"`
}

type CreateLeaveTypeRequest struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	IsPaid bool   `json:"is_paid"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	}
	if len(r.Code) > 5 {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must not exceed 5 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateLeaveTypeRequest struct {
	ID     string  `json:"-"`
	Name   *string `json:"name,omitempty"`
	Code   *string `json:"code,omitempty"`
	IsPaid *bool   `json:"is_paid,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*r.Code))
		r.Code = &code
		if code == "" || len(code) > 5 {
			errs = append(errs, validator.ValidationError{
				Field:   "code",
				Message: "code must be 1 to 5 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
