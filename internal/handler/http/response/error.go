package response

import (
	"errors"
	"net/http"

	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/auth"
	"github.com/truewood-ems/ems-backend-go/internal/domain/employee"
	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/category"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/department"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/leavetype"
	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/domain/worksite"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")
	case errors.Is(err, auth.ErrLoginDisabled):
		Forbidden(w, err.Error())

	// Master data errors
	case errors.Is(err, category.ErrCategoryNotFound):
		NotFound(w, "Category not found")
	case errors.Is(err, category.ErrCategoryNameExists):
		Conflict(w, err.Error())
	case errors.Is(err, category.ErrCategoryInUse):
		Conflict(w, err.Error())
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, err.Error())
	case errors.Is(err, department.ErrDepartmentInUse):
		Conflict(w, err.Error())
	case errors.Is(err, leavetype.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leavetype.ErrLeaveTypeCodeExists):
		Conflict(w, err.Error())
	case errors.Is(err, leavetype.ErrLeaveTypeInUse):
		Conflict(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmployeeHasAttendance):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrInvalidReference):
		BadRequest(w, err.Error(), nil)

	// Work site errors
	case errors.Is(err, worksite.ErrWorkSiteNotFound):
		NotFound(w, "Work site not found")
	case errors.Is(err, worksite.ErrWorkSiteNameExists):
		Conflict(w, err.Error())
	case errors.Is(err, worksite.ErrWorkSiteInUse):
		Conflict(w, err.Error())
	case errors.Is(err, worksite.ErrEffectiveDateBeforeLast):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, worksite.ErrInvalidDateFormat):
		BadRequest(w, err.Error(), nil)

	// Attendance errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrEmployeeInactive):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrTimesRequirePresent):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidReference):
		BadRequest(w, err.Error(), nil)

	// Calendar errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayDateExists):
		Conflict(w, err.Error())
	case errors.Is(err, holiday.ErrInvalidCalendar):
		BadRequest(w, err.Error(), nil)

	// Report errors
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrReportEmpty):
		NotFound(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
