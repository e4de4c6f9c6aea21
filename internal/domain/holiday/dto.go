package holiday

import (
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

type HolidayResponse struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Name    string `json:"name"`
	Weekday string `json:"weekday"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:      h.ID,
		Date:    h.Date.Format("2006-01-02"),
		Name:    h.Name,
		Weekday: h.Date.Weekday().String(),
	}
}

type WeeklyOffResponse struct {
	Weekday int    `json:"weekday"`
	Name    string `json:"name"`
	IsOff   bool   `json:"is_off"`
}

type ImportHolidaysResponse struct {
	Created []HolidayResponse `json:"created"`
	Skipped []string          `json:"skipped"` // dates that already had a holiday
}

type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`

	ParsedDate time.Time `json:"-"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if d, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else {
		r.ParsedDate = d
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateHolidayRequest struct {
	ID   string  `json:"-"`
	Date *string `json:"date,omitempty"`
	Name *string `json:"name,omitempty"`
}

func (r *UpdateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateWeeklyOffsRequest struct {
	// OffDays lists weekdays (0 = Sunday) that are not worked; all others become working days.
	OffDays []int `json:"off_days"`
}

func (r *UpdateWeeklyOffsRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, d := range r.OffDays {
		if d < 0 || d > 6 {
			errs = append(errs, validator.ValidationError{
				Field:   "off_days",
				Message: ErrInvalidWeekday.Error(),
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToWeeklyOffs expands the request into one row per weekday.
func (r UpdateWeeklyOffsRequest) ToWeeklyOffs() []WeeklyOff {
	off := make(map[int]bool, len(r.OffDays))
	for _, d := range r.OffDays {
		off[d] = true
	}
	offs := make([]WeeklyOff, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		offs = append(offs, WeeklyOff{Weekday: d, IsOff: off[int(d)]})
	}
	return offs
}
