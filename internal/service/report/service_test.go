package report

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/domain/timesheet"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/export"
)

type fakeTimesheetService struct {
	timesheet.TimesheetService
	mu    sync.Mutex
	calls int
	empty bool
}

func (f *fakeTimesheetService) GetMonthlyTimesheet(_ context.Context, req timesheet.MonthlyTimesheetRequest) (timesheet.MonthlyTimesheetResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	resp := timesheet.MonthlyTimesheetResponse{
		Year:      req.Year,
		Month:     req.Month,
		StartDate: "2024-02-26",
		EndDate:   "2024-03-25",
		Days: []timesheet.DayHeader{
			{Date: "2024-02-26", Day: 26, Weekday: "Mon"},
			{Date: "2024-02-27", Day: 27, Weekday: "Tue"},
		},
	}
	if f.empty {
		return resp, nil
	}

	asha := timesheet.EmployeeTimesheet{
		EmployeeID: "e1", EmployeeCode: "TW001", EmployeeName: "Asha", CategoryName: "Staff",
		Rows: []timesheet.TimesheetRow{{Code: "P"}, {Code: "CL"}},
		Summary: timesheet.MonthlySummary{
			Present: 1, Leave: 1, LeaveByCode: map[string]int{"CL": 1},
			TotalWorkedMinutes: 480, TotalOvertimeMinutes: 30,
		},
	}
	resp.Employees = []timesheet.EmployeeTimesheet{asha}
	// Ravi joins in June
	if req.Month >= 6 {
		resp.Employees = append(resp.Employees, timesheet.EmployeeTimesheet{
			EmployeeID: "e2", EmployeeCode: "TW002", EmployeeName: "Ravi", CategoryName: "Staff",
			Rows:    []timesheet.TimesheetRow{{Code: "A"}, {Code: "P"}},
			Summary: timesheet.MonthlySummary{Present: 1, Absent: 1, LeaveByCode: map[string]int{}, TotalWorkedMinutes: 60},
		})
	}
	return resp, nil
}

type memoryReportCache struct {
	mu      sync.Mutex
	monthly map[string]report.MonthlyReport
	yearly  map[int]report.YearlyReport
}

func newMemoryReportCache() *memoryReportCache {
	return &memoryReportCache{monthly: map[string]report.MonthlyReport{}, yearly: map[int]report.YearlyReport{}}
}

func (c *memoryReportCache) GetMonthly(_ context.Context, year, month int) (*report.MonthlyReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.monthly[report.MonthlyCacheKey(year, month)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (c *memoryReportCache) SetMonthly(_ context.Context, r report.MonthlyReport, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.monthly[report.MonthlyCacheKey(r.Year, r.Month)] = r
	return nil
}

func (c *memoryReportCache) GetYearly(_ context.Context, year int) (*report.YearlyReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.yearly[year]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (c *memoryReportCache) SetYearly(_ context.Context, r report.YearlyReport, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yearly[r.Year] = r
	return nil
}

func (c *memoryReportCache) Invalidate(_ context.Context, year, month int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.monthly, report.MonthlyCacheKey(year, month))
	delete(c.yearly, year)
	return nil
}

func (c *memoryReportCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.monthly = map[string]report.MonthlyReport{}
	c.yearly = map[int]report.YearlyReport{}
	return nil
}

func newTestService(ts *fakeTimesheetService) (*ReportServiceImpl, *memoryReportCache) {
	cache := newMemoryReportCache()
	svc := NewReportService(ts, cache, time.Minute, "True Wood", zap.NewNop()).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 26, 9, 0, 0, 0, time.UTC) }
	return svc, cache
}

func TestGetMonthlyReport_BuildsAndCaches(t *testing.T) {
	ts := &fakeTimesheetService{}
	svc, _ := newTestService(ts)
	ctx := context.Background()

	rep, err := svc.GetMonthlyReport(ctx, report.MonthlyReportRequest{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, "Attendance Register March 2024", rep.Title)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, []string{"P", "CL"}, rep.Rows[0].Codes)
	assert.Equal(t, 1, rep.Rows[0].SerialNo)
	assert.Equal(t, []string{"CL"}, rep.LeaveCodes)
	assert.Equal(t, "08:00", rep.Totals.TotalWorkedDisplay)

	_, err = svc.GetMonthlyReport(ctx, report.MonthlyReportRequest{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, ts.calls)
}

func TestGetYearlyReport_MergesEmployees(t *testing.T) {
	ts := &fakeTimesheetService{}
	svc, _ := newTestService(ts)

	rep, err := svc.GetYearlyReport(context.Background(), report.YearlyReportRequest{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 12, ts.calls)

	require.Len(t, rep.Rows, 2)
	asha, ravi := rep.Rows[0], rep.Rows[1]
	assert.Equal(t, "TW001", asha.EmployeeCode)
	assert.Equal(t, 12, asha.Total.Present)
	assert.Equal(t, 12, asha.Total.LeaveByCode["CL"])

	assert.Equal(t, 2, ravi.SerialNo)
	assert.Zero(t, ravi.Months[4].Present)
	assert.Equal(t, 1, ravi.Months[5].Present)
	assert.Equal(t, 7, ravi.Total.Absent)

	assert.Equal(t, 19, rep.Totals.Present)
	assert.Equal(t, 12*480+7*60, rep.Totals.TotalWorkedMinutes)
	assert.Equal(t, monthLabels, rep.MonthLabels)
}

func TestExportMonthlyReport(t *testing.T) {
	svc, _ := newTestService(&fakeTimesheetService{})
	ctx := context.Background()

	xlsx, err := svc.ExportMonthlyReport(ctx, report.MonthlyReportRequest{Year: 2024, Month: 3, Format: "XLSX"})
	require.NoError(t, err)
	assert.Equal(t, "attendance-2024-03.xlsx", xlsx.Filename)
	assert.Equal(t, export.ContentTypeXLSX, xlsx.ContentType)
	assert.NotEmpty(t, xlsx.Content)

	pdf, err := svc.ExportMonthlyReport(ctx, report.MonthlyReportRequest{Year: 2024, Month: 3, Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, export.ContentTypePDF, pdf.ContentType)

	_, err = svc.ExportMonthlyReport(ctx, report.MonthlyReportRequest{Year: 2024, Month: 3, Format: "json"})
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
}

func TestExport_EmptyReport(t *testing.T) {
	svc, _ := newTestService(&fakeTimesheetService{empty: true})

	_, err := svc.ExportMonthlyReport(context.Background(), report.MonthlyReportRequest{Year: 2024, Month: 3, Format: "xlsx"})
	assert.ErrorIs(t, err, report.ErrReportEmpty)

	_, err = svc.ExportYearlyReport(context.Background(), report.YearlyReportRequest{Year: 2024, Format: "xlsx"})
	assert.ErrorIs(t, err, report.ErrReportEmpty)
}

func TestExportYearlyReport_RejectsPDF(t *testing.T) {
	svc, _ := newTestService(&fakeTimesheetService{})

	_, err := svc.ExportYearlyReport(context.Background(), report.YearlyReportRequest{Year: 2024, Format: "pdf"})
	assert.Error(t, err)
}
