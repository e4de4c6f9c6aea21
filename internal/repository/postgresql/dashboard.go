package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/domain/dashboard"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetEmployeeSummary returns total, active, inactive and new (since date) in single query
func (r *dashboardRepositoryImpl) GetEmployeeSummary(ctx context.Context, since time.Time) (*dashboard.EmployeeSummaryStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) as active_count,
			COALESCE(SUM(CASE WHEN status = 'inactive' THEN 1 ELSE 0 END), 0) as inactive_count,
			COALESCE(SUM(CASE WHEN joined_at >= $1 THEN 1 ELSE 0 END), 0) as new_count
		FROM employees
	`

	var stats dashboard.EmployeeSummaryStats
	err := q.QueryRow(ctx, query, since).Scan(
		&stats.Total, &stats.Active, &stats.Inactive, &stats.New,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee summary: %w", err)
	}
	return &stats, nil
}

// CountActiveWorkSites returns the number of active work sites
func (r *dashboardRepositoryImpl) CountActiveWorkSites(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM work_sites WHERE status = 'active'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count work sites: %w", err)
	}
	return n, nil
}
