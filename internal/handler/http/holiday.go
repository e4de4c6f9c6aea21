package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/handler/http/response"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/export"
)

const maxCalendarUpload = 1 << 20

type HolidayHandler interface {
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	GetHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	UpdateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)

	// iCalendar feed
	ExportCalendar(w http.ResponseWriter, r *http.Request)
	ImportCalendar(w http.ResponseWriter, r *http.Request)

	// Weekly offs
	GetWeeklyOffs(w http.ResponseWriter, r *http.Request)
	UpdateWeeklyOffs(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.HolidayService
}

func NewHolidayHandler(holidayService holiday.HolidayService) HolidayHandler {
	return &holidayHandlerImpl{
		holidayService: holidayService,
	}
}

func (h *holidayHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.holidayService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created successfully", result)
}

func (h *holidayHandlerImpl) GetHoliday(w http.ResponseWriter, r *http.Request) {
	result, err := h.holidayService.GetHoliday(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListHolidays handles GET /holidays?year=YYYY
func (h *holidayHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := intQuery(r, "year", time.Now().Year())
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	results, err := h.holidayService.ListHolidays(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *holidayHandlerImpl) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	var req holiday.UpdateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.holidayService.UpdateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday updated successfully", result)
}

func (h *holidayHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.holidayService.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}

// ExportCalendar handles GET /holidays/calendar.ics?year=YYYY
func (h *holidayHandlerImpl) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := intQuery(r, "year", time.Now().Year())
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	feed, err := h.holidayService.ExportICS(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, fmt.Sprintf("holidays-%d.ics", year), export.ContentTypeICS, feed)
}

// ImportCalendar handles POST /holidays/import. The feed is read from the
// multipart field "file" or, for any other content type, from the raw body.
func (h *holidayHandlerImpl) ImportCalendar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCalendarUpload)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxCalendarUpload); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			response.BadRequest(w, "Field 'file' is required", nil)
			return
		}
		defer file.Close()
		src = file
	}

	result, err := h.holidayService.ImportICS(r.Context(), src)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("Imported %d holidays", len(result.Created)), result)
}

func (h *holidayHandlerImpl) GetWeeklyOffs(w http.ResponseWriter, r *http.Request) {
	results, err := h.holidayService.GetWeeklyOffs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *holidayHandlerImpl) UpdateWeeklyOffs(w http.ResponseWriter, r *http.Request) {
	var req holiday.UpdateWeeklyOffsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	results, err := h.holidayService.UpdateWeeklyOffs(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Weekly offs updated successfully", results)
}
