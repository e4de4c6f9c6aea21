package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/truewood-ems/ems-backend-go/internal/domain/worksite"
	"github.com/truewood-ems/ems-backend-go/internal/handler/http/response"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

type WorkSiteHandler interface {
	CreateWorkSite(w http.ResponseWriter, r *http.Request)
	GetWorkSite(w http.ResponseWriter, r *http.Request)
	ListWorkSites(w http.ResponseWriter, r *http.Request)
	UpdateWorkSite(w http.ResponseWriter, r *http.Request)
	DeleteWorkSite(w http.ResponseWriter, r *http.Request)

	// Schedule history
	ListScheduleHistory(w http.ResponseWriter, r *http.Request)
	GetScheduleOn(w http.ResponseWriter, r *http.Request)
}

type workSiteHandlerImpl struct {
	workSiteService worksite.WorkSiteService
}

func NewWorkSiteHandler(workSiteService worksite.WorkSiteService) WorkSiteHandler {
	return &workSiteHandlerImpl{
		workSiteService: workSiteService,
	}
}

func (h *workSiteHandlerImpl) CreateWorkSite(w http.ResponseWriter, r *http.Request) {
	var req worksite.CreateWorkSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.workSiteService.CreateWorkSite(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work site created successfully", result)
}

func (h *workSiteHandlerImpl) GetWorkSite(w http.ResponseWriter, r *http.Request) {
	result, err := h.workSiteService.GetWorkSite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *workSiteHandlerImpl) ListWorkSites(w http.ResponseWriter, r *http.Request) {
	filter := worksite.WorkSiteFilter{
		Status: optionalQuery(r, "status"),
		Name:   optionalQuery(r, "name"),
	}

	results, err := h.workSiteService.ListWorkSites(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *workSiteHandlerImpl) UpdateWorkSite(w http.ResponseWriter, r *http.Request) {
	var req worksite.UpdateWorkSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.workSiteService.UpdateWorkSite(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work site updated successfully", result)
}

func (h *workSiteHandlerImpl) DeleteWorkSite(w http.ResponseWriter, r *http.Request) {
	if err := h.workSiteService.DeleteWorkSite(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work site deleted successfully", nil)
}

// ListScheduleHistory handles GET /work-sites/{id}/history
func (h *workSiteHandlerImpl) ListScheduleHistory(w http.ResponseWriter, r *http.Request) {
	results, err := h.workSiteService.ListScheduleHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetScheduleOn handles GET /work-sites/{id}/schedule?date=YYYY-MM-DD
func (h *workSiteHandlerImpl) GetScheduleOn(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		date = parsed
	}

	result, err := h.workSiteService.GetScheduleOn(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
