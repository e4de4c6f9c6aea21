package worksite

import (
	"context"
	"time"
)

type WorkSiteService interface {
	CreateWorkSite(ctx context.Context, req CreateWorkSiteRequest) (WorkSiteResponse, error)
	GetWorkSite(ctx context.Context, id string) (WorkSiteResponse, error)
	ListWorkSites(ctx context.Context, filter WorkSiteFilter) ([]WorkSiteResponse, error)
	UpdateWorkSite(ctx context.Context, req UpdateWorkSiteRequest) (WorkSiteResponse, error)
	DeleteWorkSite(ctx context.Context, id string) error

	// ListScheduleHistory returns the site's schedule snapshots, oldest first.
	ListScheduleHistory(ctx context.Context, id string) ([]ScheduleHistoryResponse, error)

	// GetScheduleOn returns the schedule that was in effect for the site on date.
	GetScheduleOn(ctx context.Context, id string, date time.Time) (EffectiveScheduleResponse, error)
}
