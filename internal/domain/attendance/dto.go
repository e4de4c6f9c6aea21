package attendance

import (
	"strings"
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

type AttendanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	EmployeeCode  *string `json:"employee_code,omitempty"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	LeaveTypeID   *string `json:"leave_type_id,omitempty"`
	LeaveTypeCode *string `json:"leave_type_code,omitempty"`
	WorkSiteID    *string `json:"work_site_id,omitempty"`
	WorkSiteName  *string `json:"work_site_name,omitempty"`
	TimeIn        *string `json:"time_in,omitempty"`
	TimeOut       *string `json:"time_out,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		EmployeeCode:  a.EmployeeCode,
		Date:          a.DateKey(),
		Status:        string(a.Status),
		LeaveTypeID:   a.LeaveTypeID,
		LeaveTypeCode: a.LeaveTypeCode,
		WorkSiteID:    a.WorkSiteID,
		WorkSiteName:  a.WorkSiteName,
		TimeIn:        a.TimeIn,
		TimeOut:       a.TimeOut,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
}

type MarkAttendanceRequest struct {
	EmployeeID  string  `json:"employee_id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Status      string  `json:"status"`
	LeaveTypeID *string `json:"leave_type_id,omitempty"`
	WorkSiteID  *string `json:"work_site_id,omitempty"`
	TimeIn      *string `json:"time_in,omitempty"`
	TimeOut     *string `json:"time_out,omitempty"`

	ParsedDate time.Time `json:"-"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if d, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else {
		r.ParsedDate = d
	}

	errs = append(errs, validateStatusFields(r.Status, r.LeaveTypeID, r.TimeIn, r.TimeOut)...)

	if len(errs) > 0 {
		return errs
	}

	r.normalize()
	return nil
}

// normalize clears fields that do not apply to the status.
func (r *MarkAttendanceRequest) normalize() {
	switch Status(r.Status) {
	case StatusPresent:
		r.LeaveTypeID = nil
	case StatusAbsent:
		r.LeaveTypeID = nil
		r.TimeIn = nil
		r.TimeOut = nil
	case StatusLeave:
		r.TimeIn = nil
		r.TimeOut = nil
	}
	r.WorkSiteID = blankToNil(r.WorkSiteID)
	r.TimeIn = blankToNil(r.TimeIn)
	r.TimeOut = blankToNil(r.TimeOut)
}

// ToEntity builds the record to upsert.
func (r MarkAttendanceRequest) ToEntity() Attendance {
	return Attendance{
		EmployeeID:  r.EmployeeID,
		Date:        r.ParsedDate,
		Status:      Status(r.Status),
		LeaveTypeID: r.LeaveTypeID,
		WorkSiteID:  r.WorkSiteID,
		TimeIn:      r.TimeIn,
		TimeOut:     r.TimeOut,
	}
}

type BulkMarkEntry struct {
	EmployeeID  string  `json:"employee_id"`
	Status      string  `json:"status"`
	LeaveTypeID *string `json:"leave_type_id,omitempty"`
	WorkSiteID  *string `json:"work_site_id,omitempty"`
	TimeIn      *string `json:"time_in,omitempty"`
	TimeOut     *string `json:"time_out,omitempty"`
}

type BulkMarkAttendanceRequest struct {
	Date    string          `json:"date"`
	Entries []BulkMarkEntry `json:"entries"`

	Requests []MarkAttendanceRequest `json:"-"`
}

func (r *BulkMarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entries",
			Message: "at least one entry is required",
		})
	}
	if len(r.Entries) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "entries",
			Message: "no more than 500 entries per request",
		})
	}
	if len(errs) > 0 {
		return errs
	}

	seen := make(map[string]bool, len(r.Entries))
	r.Requests = make([]MarkAttendanceRequest, 0, len(r.Entries))
	for i, e := range r.Entries {
		prefix := "entries[" + validator.Itoa(i) + "]."
		if seen[e.EmployeeID] {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "employee_id",
				Message: "employee appears more than once",
			})
			continue
		}
		seen[e.EmployeeID] = true

		req := MarkAttendanceRequest{
			EmployeeID:  e.EmployeeID,
			Date:        r.Date,
			Status:      e.Status,
			LeaveTypeID: e.LeaveTypeID,
			WorkSiteID:  e.WorkSiteID,
			TimeIn:      e.TimeIn,
			TimeOut:     e.TimeOut,
		}
		if err := req.Validate(); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					errs = append(errs, validator.ValidationError{
						Field:   prefix + fe.Field,
						Message: fe.Message,
					})
				}
			}
			continue
		}
		r.Requests = append(r.Requests, req)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTimesRequest struct {
	ID      string  `json:"-"`
	TimeIn  *string `json:"time_in"`
	TimeOut *string `json:"time_out"`
}

func (r *UpdateTimesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	errs = validator.ValidateOptionalTime(errs, "time_in", r.TimeIn)
	errs = validator.ValidateOptionalTime(errs, "time_out", r.TimeOut)

	if len(errs) > 0 {
		return errs
	}

	r.TimeIn = blankToNil(r.TimeIn)
	r.TimeOut = blankToNil(r.TimeOut)
	return nil
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  string  `json:"start_date"` // YYYY-MM-DD
	EndDate    string  `json:"end_date"`   // YYYY-MM-DD

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

// Validate defaults a missing range to today.
func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	today := time.Now().Format("2006-01-02")
	if f.StartDate == "" {
		f.StartDate = today
	}
	if f.EndDate == "" {
		f.EndDate = f.StartDate
	}

	start, ok := validator.IsValidDate(f.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, ok := validator.IsValidDate(f.EndDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if len(errs) == 0 {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: ErrInvalidDateRange.Error(),
			})
		} else if end.Sub(start) > 366*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "date range must not exceed one year",
			})
		}
	}
	if f.EmployeeID != nil && *f.EmployeeID == "" {
		f.EmployeeID = nil
	}

	if len(errs) > 0 {
		return errs
	}

	f.Start, f.End = start, end
	return nil
}

func validateStatusFields(status string, leaveTypeID, timeIn, timeOut *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
		return errs
	}

	if Status(status) == StatusLeave && (leaveTypeID == nil || validator.IsEmpty(*leaveTypeID)) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: ErrLeaveTypeRequired.Error(),
		})
	}
	if Status(status) == StatusPresent {
		errs = validator.ValidateOptionalTime(errs, "time_in", timeIn)
		errs = validator.ValidateOptionalTime(errs, "time_out", timeOut)
	}

	return errs
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
