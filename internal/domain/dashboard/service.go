package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns combined dashboard data using goroutines
	GetDashboard(ctx context.Context) (*DashboardResponse, error)

	// GetDailyAttendanceStats returns marking progress for a specific day
	GetDailyAttendanceStats(ctx context.Context, req DailyStatsRequest) (*AttendanceStatsResponse, error)
}
