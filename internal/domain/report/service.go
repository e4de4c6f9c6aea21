package report

import "context"

type ReportService interface {
	GetMonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)
	GetYearlyReport(ctx context.Context, req YearlyReportRequest) (YearlyReport, error)

	// ExportMonthlyReport renders the monthly report as xlsx or pdf.
	ExportMonthlyReport(ctx context.Context, req MonthlyReportRequest) (ExportFile, error)

	// ExportYearlyReport renders the yearly report as xlsx.
	ExportYearlyReport(ctx context.Context, req YearlyReportRequest) (ExportFile, error)
}
