package category

import (
	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

// CategoryResponse represents the response structure for a category.
type CategoryResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	TimeIn     *string  `json:"time_in,omitempty"`
	TimeOut    *string  `json:"time_out,omitempty"`
	BreakHours *float64 `json:"break_hours,omitempty"`
}

type CreateCategoryRequest struct {
	Name       string   `json:"name"`
	TimeIn     *string  `json:"time_in,omitempty"`
	TimeOut    *string  `json:"time_out,omitempty"`
	BreakHours *float64 `json:"break_hours,omitempty"`
}

func (r *CreateCategoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	errs = validator.ValidateOptionalTime(errs, "time_in", r.TimeIn)
	errs = validator.ValidateOptionalTime(errs, "time_out", r.TimeOut)
	errs = validator.ValidateOptionalBreak(errs, "break_hours", r.BreakHours)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateCategoryRequest struct {
	ID         string   `json:"-"`
	Name       *string  `json:"name,omitempty"`
	TimeIn     *string  `json:"time_in,omitempty"`
	TimeOut    *string  `json:"time_out,omitempty"`
	BreakHours *float64 `json:"break_hours,omitempty"`
}

func (r *UpdateCategoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	errs = validator.ValidateOptionalTime(errs, "time_in", r.TimeIn)
	errs = validator.ValidateOptionalTime(errs, "time_out", r.TimeOut)
	errs = validator.ValidateOptionalBreak(errs, "break_hours", r.BreakHours)

	if len(errs) > 0 {
		return errs
	}

	return nil
}
