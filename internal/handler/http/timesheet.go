package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/truewood-ems/ems-backend-go/internal/domain/timesheet"
	"github.com/truewood-ems/ems-backend-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	GetDaily(w http.ResponseWriter, r *http.Request)
	GetMonthly(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}

// GetDaily handles GET /timesheets/daily?date=YYYY-MM-DD
func (h *timesheetHandlerImpl) GetDaily(w http.ResponseWriter, r *http.Request) {
	req := timesheet.DailyTimesheetRequest{Date: r.URL.Query().Get("date")}

	result, err := h.timesheetService.GetDailyTimesheet(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthly handles GET /timesheets/monthly?year=&month=
func (h *timesheetHandlerImpl) GetMonthly(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthQuery(r)
	if !ok {
		response.BadRequest(w, "invalid year or month parameter", nil)
		return
	}

	result, err := h.timesheetService.GetMonthlyTimesheet(r.Context(), timesheet.MonthlyTimesheetRequest{
		Year:  year,
		Month: month,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployee handles GET /timesheets/employees/{id}?year=&month=
func (h *timesheetHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonthQuery(r)
	if !ok {
		response.BadRequest(w, "invalid year or month parameter", nil)
		return
	}

	result, err := h.timesheetService.GetEmployeeTimesheet(r.Context(), timesheet.EmployeeTimesheetRequest{
		EmployeeID: chi.URLParam(r, "id"),
		Year:       year,
		Month:      month,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
