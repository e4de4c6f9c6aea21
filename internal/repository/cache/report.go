package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/cache"
)

type reportCache struct {
	store cache.Cache
}

func NewReportCache(store cache.Cache) report.ReportCache {
	return &reportCache{store: store}
}

func (r *reportCache) GetMonthly(ctx context.Context, year, month int) (*report.MonthlyReport, error) {
	var out report.MonthlyReport
	ok, err := r.get(ctx, report.MonthlyCacheKey(year, month), &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

func (r *reportCache) SetMonthly(ctx context.Context, rep report.MonthlyReport, ttl time.Duration) error {
	return r.set(ctx, report.MonthlyCacheKey(rep.Year, rep.Month), rep, ttl)
}

func (r *reportCache) GetYearly(ctx context.Context, year int) (*report.YearlyReport, error) {
	var out report.YearlyReport
	ok, err := r.get(ctx, report.YearlyCacheKey(year), &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

func (r *reportCache) SetYearly(ctx context.Context, rep report.YearlyReport, ttl time.Duration) error {
	return r.set(ctx, report.YearlyCacheKey(rep.Year), rep, ttl)
}

// Invalidate drops the monthly report and the yearly report it rolls into.
func (r *reportCache) Invalidate(ctx context.Context, year, month int) error {
	return r.store.Delete(ctx, report.MonthlyCacheKey(year, month), report.YearlyCacheKey(year))
}

func (r *reportCache) InvalidateAll(ctx context.Context) error {
	return r.store.DeletePrefix(ctx, report.CacheKeyPrefix)
}

func (r *reportCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := r.store.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// Stale payload from an older layout; treat as a miss.
		_ = r.store.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

func (r *reportCache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.store.Set(ctx, key, b, ttl)
}
