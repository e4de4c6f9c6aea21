package dashboard

import (
	"context"
	"time"
)

// EmployeeSummaryStats combines all employee summary counts in single query
type EmployeeSummaryStats struct {
	Total    int64
	Active   int64
	Inactive int64
	New      int64 // joined within 30 days
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// GetEmployeeSummary returns total, active, inactive and new-since counts in single query
	GetEmployeeSummary(ctx context.Context, since time.Time) (*EmployeeSummaryStats, error)

	CountActiveWorkSites(ctx context.Context) (int64, error)
}
