package worksite

import (
	"context"
	"time"
)

type WorkSiteRepository interface {
	Create(ctx context.Context, workSite WorkSite) (WorkSite, error)
	GetByID(ctx context.Context, id string) (WorkSite, error)
	List(ctx context.Context, filter WorkSiteFilter) ([]WorkSite, error)
	Update(ctx context.Context, workSite WorkSite) error
	Delete(ctx context.Context, id string) error
}

// ScheduleHistoryRepository only appends; history rows are never updated.
type ScheduleHistoryRepository interface {
	Append(ctx context.Context, entry ScheduleHistory) (ScheduleHistory, error)
	ListByWorkSite(ctx context.Context, workSiteID string) ([]ScheduleHistory, error)
	// ListEffectiveUntil returns, for every site, all entries with effective_from on or before until.
	ListEffectiveUntil(ctx context.Context, until time.Time) ([]ScheduleHistory, error)
	GetLatest(ctx context.Context, workSiteID string) (*ScheduleHistory, error)
}
