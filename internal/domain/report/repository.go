package report

import (
	"context"
	"fmt"
	"time"
)

// ReportCache stores generated reports between requests.
type ReportCache interface {
	GetMonthly(ctx context.Context, year, month int) (*MonthlyReport, error)
	SetMonthly(ctx context.Context, r MonthlyReport, ttl time.Duration) error
	GetYearly(ctx context.Context, year int) (*YearlyReport, error)
	SetYearly(ctx context.Context, r YearlyReport, ttl time.Duration) error
	// Invalidate drops the cached reports covering the given working month.
	Invalidate(ctx context.Context, year, month int) error
	// InvalidateAll drops every cached report.
	InvalidateAll(ctx context.Context) error
}

// CacheKeyPrefix is shared by every report cache key.
const CacheKeyPrefix = "report:"

func MonthlyCacheKey(year, month int) string {
	return fmt.Sprintf("report:monthly:%04d-%02d", year, month)
}

func YearlyCacheKey(year int) string {
	return fmt.Sprintf("report:yearly:%04d", year)
}
