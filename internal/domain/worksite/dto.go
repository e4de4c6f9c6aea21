package worksite

import (
	"strings"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

type WorkSiteResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Status     string   `json:"status"`
	TimeIn     *string  `json:"time_in,omitempty"`
	TimeOut    *string  `json:"time_out,omitempty"`
	BreakHours *float64 `json:"break_hours,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

type ScheduleHistoryResponse struct {
	ID            string   `json:"id"`
	WorkSiteID    string   `json:"work_site_id"`
	EffectiveFrom string   `json:"effective_from"`
	TimeIn        *string  `json:"time_in,omitempty"`
	TimeOut       *string  `json:"time_out,omitempty"`
	BreakHours    *float64 `json:"break_hours,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

// EffectiveScheduleResponse describes which snapshot applied on a date.
// Source is "history" or "current".
type EffectiveScheduleResponse struct {
	WorkSiteID    string   `json:"work_site_id"`
	Date          string   `json:"date"`
	Source        string   `json:"source"`
	EffectiveFrom *string  `json:"effective_from,omitempty"`
	TimeIn        *string  `json:"time_in,omitempty"`
	TimeOut       *string  `json:"time_out,omitempty"`
	BreakHours    *float64 `json:"break_hours,omitempty"`
}

type WorkSiteFilter struct {
	Status *string `json:"status,omitempty"`
	Name   *string `json:"name,omitempty"`
}

func (f *WorkSiteFilter) Validate() error {
	var errs validator.ValidationErrors

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

type CreateWorkSiteRequest struct {
	Name          string   `json:"name"`
	Status        string   `json:"status"`
	TimeIn        *string  `json:"time_in,omitempty"`
	TimeOut       *string  `json:"time_out,omitempty"`
	BreakHours    *float64 `json:"break_hours,omitempty"`
	EffectiveFrom *string  `json:"effective_from,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r *CreateWorkSiteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 150 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 150 characters",
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

	errs = validator.ValidateOptionalTime(errs, "time_in", r.TimeIn)
	errs = validator.ValidateOptionalTime(errs, "time_out", r.TimeOut)
	errs = validator.ValidateOptionalBreak(errs, "break_hours", r.BreakHours)

	if r.EffectiveFrom != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_from",
				Message: "effective_from must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateWorkSiteRequest replaces the site's fields. Schedule fields are
// written as given (nil clears them); a change appends a history entry
// effective from EffectiveFrom.
type UpdateWorkSiteRequest struct {
	ID            string   `json:"-"`
	Name          string   `json:"name"`
	Status        string   `json:"status"`
	TimeIn        *string  `json:"time_in"`
	TimeOut       *string  `json:"time_out"`
	BreakHours    *float64 `json:"break_hours"`
	EffectiveFrom *string  `json:"effective_from,omitempty"`
}

func (r *UpdateWorkSiteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsInSlice(r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	errs = validator.ValidateOptionalTime(errs, "time_in", r.TimeIn)
	errs = validator.ValidateOptionalTime(errs, "time_out", r.TimeOut)
	errs = validator.ValidateOptionalBreak(errs, "break_hours", r.BreakHours)

	if r.EffectiveFrom != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_from",
				Message: "effective_from must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
