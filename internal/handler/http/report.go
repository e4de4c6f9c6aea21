package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// GetMonthlyReport returns JSON or, with format=xlsx|pdf, a file download.
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)

	// GetYearlyReport returns JSON or, with format=xlsx, a file download.
	GetYearlyReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthlyReport handles GET /reports/monthly
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, month, ok := yearMonthQuery(r)
	if !ok {
		response.BadRequest(w, "invalid year or month parameter", nil)
		return
	}

	req := report.MonthlyReportRequest{
		Year:   year,
		Month:  month,
		Format: r.URL.Query().Get("format"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if req.Format == report.FormatJSON {
		result, err := h.reportService.GetMonthlyReport(ctx, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)
		return
	}

	file, err := h.reportService.ExportMonthlyReport(ctx, req)
	if err != nil {
		slog.Error("Monthly report export failed", "error", err, "year", year, "month", month, "format", req.Format)
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

// GetYearlyReport handles GET /reports/yearly
func (h *reportHandlerImpl) GetYearlyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := intQuery(r, "year", time.Now().Year())
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	req := report.YearlyReportRequest{
		Year:   year,
		Format: r.URL.Query().Get("format"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if req.Format == report.FormatJSON {
		result, err := h.reportService.GetYearlyReport(ctx, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)
		return
	}

	file, err := h.reportService.ExportYearlyReport(ctx, req)
	if err != nil {
		slog.Error("Yearly report export failed", "error", err, "year", year)
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}
