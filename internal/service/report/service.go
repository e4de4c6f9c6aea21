package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/domain/timesheet"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/export"
	timesheetsvc "github.com/truewood-ems/ems-backend-go/internal/service/timesheet"
)

// yearlyConcurrency bounds the working months loaded in parallel for a yearly report.
const yearlyConcurrency = 3

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type ReportServiceImpl struct {
	timesheetService timesheet.TimesheetService
	cache            report.ReportCache
	cacheTTL         time.Duration
	orgName          string
	logger           *zap.Logger
	now              func() time.Time
}

func NewReportService(
	timesheetService timesheet.TimesheetService,
	cache report.ReportCache,
	cacheTTL time.Duration,
	orgName string,
	logger *zap.Logger,
) report.ReportService {
	return &ReportServiceImpl{
		timesheetService: timesheetService,
		cache:            cache,
		cacheTTL:         cacheTTL,
		orgName:          orgName,
		logger:           logger,
		now:              time.Now,
	}
}

// GetMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) GetMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}
	return s.monthly(ctx, req.Year, req.Month)
}

func (s *ReportServiceImpl) monthly(ctx context.Context, year, month int) (report.MonthlyReport, error) {
	cached, err := s.cache.GetMonthly(ctx, year, month)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
	}
	if cached != nil {
		return *cached, nil
	}

	ts, err := s.timesheetService.GetMonthlyTimesheet(ctx, timesheet.MonthlyTimesheetRequest{Year: year, Month: month})
	if err != nil {
		return report.MonthlyReport{}, fmt.Errorf("failed to build monthly timesheet: %w", err)
	}

	rep := s.buildMonthly(ts)
	if err := s.cache.SetMonthly(ctx, rep, s.cacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
	}
	return rep, nil
}

func (s *ReportServiceImpl) buildMonthly(ts timesheet.MonthlyTimesheetResponse) report.MonthlyReport {
	rep := report.MonthlyReport{
		OrgName:     s.orgName,
		Title:       fmt.Sprintf("Attendance Register %s %d", time.Month(ts.Month), ts.Year),
		Year:        ts.Year,
		Month:       ts.Month,
		PeriodStart: ts.StartDate,
		PeriodEnd:   ts.EndDate,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Days:        ts.Days,
		Rows:        make([]report.MonthlyReportRow, 0, len(ts.Employees)),
		Totals:      timesheet.MonthlySummary{LeaveByCode: map[string]int{}},
	}

	summaries := make([]timesheet.MonthlySummary, 0, len(ts.Employees))
	for i, emp := range ts.Employees {
		codes := make([]string, 0, len(emp.Rows))
		for _, r := range emp.Rows {
			codes = append(codes, r.Code)
		}
		rep.Rows = append(rep.Rows, report.MonthlyReportRow{
			SerialNo:     i + 1,
			EmployeeID:   emp.EmployeeID,
			EmployeeCode: emp.EmployeeCode,
			EmployeeName: emp.EmployeeName,
			CategoryName: emp.CategoryName,
			Codes:        codes,
			Summary:      emp.Summary,
		})
		rep.Totals.Add(emp.Summary)
		summaries = append(summaries, emp.Summary)
	}
	rep.Totals.TotalWorkedDisplay = timesheetsvc.FormatTotal(rep.Totals.TotalWorkedMinutes)
	rep.Totals.TotalOvertimeDisplay = timesheetsvc.FormatTotal(rep.Totals.TotalOvertimeMinutes)
	rep.LeaveCodes = export.LeaveCodes(summaries...)
	return rep
}

// GetYearlyReport implements report.ReportService. The twelve working months
// are loaded concurrently through the monthly report cache.
func (s *ReportServiceImpl) GetYearlyReport(ctx context.Context, req report.YearlyReportRequest) (report.YearlyReport, error) {
	if err := req.Validate(); err != nil {
		return report.YearlyReport{}, err
	}

	cached, err := s.cache.GetYearly(ctx, req.Year)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.Int("year", req.Year), zap.Error(err))
	}
	if cached != nil {
		return *cached, nil
	}

	months := make([]report.MonthlyReport, 12)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(yearlyConcurrency)
	for m := 1; m <= 12; m++ {
		m := m
		g.Go(func() error {
			rep, err := s.monthly(gCtx, req.Year, m)
			if err != nil {
				return err
			}
			months[m-1] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.YearlyReport{}, err
	}

	rep := s.buildYearly(req.Year, months)
	if err := s.cache.SetYearly(ctx, rep, s.cacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.Int("year", req.Year), zap.Error(err))
	}
	return rep, nil
}

// buildYearly merges monthly rows per employee. Employees keep the order in
// which they first appear; months an employee was not listed stay zero.
func (s *ReportServiceImpl) buildYearly(year int, months []report.MonthlyReport) report.YearlyReport {
	rep := report.YearlyReport{
		OrgName:     s.orgName,
		Title:       fmt.Sprintf("Yearly Attendance %d", year),
		Year:        year,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		MonthLabels: monthLabels,
		Totals:      timesheet.MonthlySummary{LeaveByCode: map[string]int{}},
	}

	index := make(map[string]int)
	for m, monthly := range months {
		for _, r := range monthly.Rows {
			i, ok := index[r.EmployeeID]
			if !ok {
				i = len(rep.Rows)
				index[r.EmployeeID] = i
				rep.Rows = append(rep.Rows, report.YearlyReportRow{
					EmployeeID:   r.EmployeeID,
					EmployeeCode: r.EmployeeCode,
					EmployeeName: r.EmployeeName,
					CategoryName: r.CategoryName,
					Months:       make([]timesheet.MonthlySummary, len(months)),
					Total:        timesheet.MonthlySummary{LeaveByCode: map[string]int{}},
				})
			}
			rep.Rows[i].Months[m] = r.Summary
			rep.Rows[i].Total.Add(r.Summary)
		}
	}

	totals := make([]timesheet.MonthlySummary, 0, len(rep.Rows))
	for i := range rep.Rows {
		row := &rep.Rows[i]
		row.SerialNo = i + 1
		row.Total.TotalWorkedDisplay = timesheetsvc.FormatTotal(row.Total.TotalWorkedMinutes)
		row.Total.TotalOvertimeDisplay = timesheetsvc.FormatTotal(row.Total.TotalOvertimeMinutes)
		rep.Totals.Add(row.Total)
		totals = append(totals, row.Total)
	}
	rep.Totals.TotalWorkedDisplay = timesheetsvc.FormatTotal(rep.Totals.TotalWorkedMinutes)
	rep.Totals.TotalOvertimeDisplay = timesheetsvc.FormatTotal(rep.Totals.TotalOvertimeMinutes)
	rep.LeaveCodes = export.LeaveCodes(totals...)
	if rep.Rows == nil {
		rep.Rows = []report.YearlyReportRow{}
	}
	return rep
}

// ExportMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	rep, err := s.monthly(ctx, req.Year, req.Month)
	if err != nil {
		return report.ExportFile{}, err
	}
	if len(rep.Rows) == 0 {
		return report.ExportFile{}, report.ErrReportEmpty
	}

	base := fmt.Sprintf("attendance-%04d-%02d", req.Year, req.Month)
	start := s.now()
	var file report.ExportFile
	switch req.Format {
	case report.FormatXLSX:
		content, err := export.MonthlyWorkbook(rep)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("failed to render workbook: %w", err)
		}
		file = report.ExportFile{Filename: base + ".xlsx", ContentType: export.ContentTypeXLSX, Content: content}
	case report.FormatPDF:
		content, err := export.MonthlyPDF(rep)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("failed to render pdf: %w", err)
		}
		file = report.ExportFile{Filename: base + ".pdf", ContentType: export.ContentTypePDF, Content: content}
	default:
		return report.ExportFile{}, report.ErrUnsupportedFormat
	}

	s.logger.Info("monthly report exported",
		zap.String("file", file.Filename),
		zap.Int("bytes", len(file.Content)),
		zap.Duration("took", s.now().Sub(start)),
	)
	return file, nil
}

// ExportYearlyReport implements report.ReportService.
func (s *ReportServiceImpl) ExportYearlyReport(ctx context.Context, req report.YearlyReportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}
	if req.Format != report.FormatXLSX {
		return report.ExportFile{}, report.ErrUnsupportedFormat
	}

	rep, err := s.GetYearlyReport(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}
	if len(rep.Rows) == 0 {
		return report.ExportFile{}, report.ErrReportEmpty
	}

	content, err := export.YearlyWorkbook(rep)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to render workbook: %w", err)
	}

	file := report.ExportFile{
		Filename:    fmt.Sprintf("attendance-%04d.xlsx", req.Year),
		ContentType: export.ContentTypeXLSX,
		Content:     content,
	}
	s.logger.Info("yearly report exported", zap.String("file", file.Filename), zap.Int("bytes", len(file.Content)))
	return file, nil
}
