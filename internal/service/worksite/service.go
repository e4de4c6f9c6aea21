package worksite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/domain/worksite"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"
	"github.com/truewood-ems/ems-backend-go/internal/repository/postgresql"
	"github.com/truewood-ems/ems-backend-go/internal/service/timesheet"
)

const (
	SourceHistory = "history"
	SourceCurrent = "current"
)

type WorkSiteServiceImpl struct {
	workSiteRepo worksite.WorkSiteRepository
	historyRepo  worksite.ScheduleHistoryRepository
	tx           postgresql.Transactor
	reportCache  report.ReportCache
	logger       *zap.Logger
	now          func() time.Time
}

func NewWorkSiteService(
	workSiteRepo worksite.WorkSiteRepository,
	historyRepo worksite.ScheduleHistoryRepository,
	tx postgresql.Transactor,
	reportCache report.ReportCache,
	logger *zap.Logger,
) worksite.WorkSiteService {
	return &WorkSiteServiceImpl{
		workSiteRepo: workSiteRepo,
		historyRepo:  historyRepo,
		tx:           tx,
		reportCache:  reportCache,
		logger:       logger,
		now:          time.Now,
	}
}

func mapWorkSiteToResponse(w worksite.WorkSite) worksite.WorkSiteResponse {
	return worksite.WorkSiteResponse{
		ID:         w.ID,
		Name:       w.Name,
		Status:     string(w.Status),
		TimeIn:     w.TimeIn,
		TimeOut:    w.TimeOut,
		BreakHours: w.BreakHours,
		CreatedAt:  w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  w.UpdatedAt.Format(time.RFC3339),
	}
}

func mapHistoryToResponse(h worksite.ScheduleHistory) worksite.ScheduleHistoryResponse {
	return worksite.ScheduleHistoryResponse{
		ID:            h.ID,
		WorkSiteID:    h.WorkSiteID,
		EffectiveFrom: h.EffectiveFrom.Format("2006-01-02"),
		TimeIn:        h.TimeIn,
		TimeOut:       h.TimeOut,
		BreakHours:    h.BreakHours,
		CreatedAt:     h.CreatedAt.Format(time.RFC3339),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// effectiveDate parses an optional YYYY-MM-DD, defaulting to today.
func (s *WorkSiteServiceImpl) effectiveDate(value *string) (time.Time, error) {
	if value == nil || *value == "" {
		n := s.now()
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return time.Time{}, worksite.ErrInvalidDateFormat
	}
	return d, nil
}

// invalidateFrom drops cached reports for every working month from the one
// containing from through the current one. Failures are logged; the cache
// expires on its own.
func (s *WorkSiteServiceImpl) invalidateFrom(ctx context.Context, from time.Time) {
	for _, m := range timesheet.WorkingMonthsBetween(from, s.now()) {
		if err := s.reportCache.Invalidate(ctx, m.Year, int(m.Month)); err != nil {
			s.logger.Warn("failed to invalidate report cache",
				zap.Int("year", m.Year), zap.Int("month", int(m.Month)), zap.Error(err))
		}
	}
}

func (s *WorkSiteServiceImpl) getWorkSite(ctx context.Context, id string) (worksite.WorkSite, error) {
	w, err := s.workSiteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worksite.WorkSite{}, worksite.ErrWorkSiteNotFound
		}
		return worksite.WorkSite{}, fmt.Errorf("failed to get work site: %w", err)
	}
	return w, nil
}

// CreateWorkSite implements worksite.WorkSiteService. The initial schedule is
// recorded as the site's first history entry.
func (s *WorkSiteServiceImpl) CreateWorkSite(ctx context.Context, req worksite.CreateWorkSiteRequest) (worksite.WorkSiteResponse, error) {
	if err := req.Validate(); err != nil {
		return worksite.WorkSiteResponse{}, err
	}
	effectiveFrom, err := s.effectiveDate(req.EffectiveFrom)
	if err != nil {
		return worksite.WorkSiteResponse{}, err
	}

	site := worksite.WorkSite{
		Name:       req.Name,
		Status:     worksite.Status(req.Status),
		TimeIn:     timeofday.NormalizeNullable(req.TimeIn),
		TimeOut:    timeofday.NormalizeNullable(req.TimeOut),
		BreakHours: req.BreakHours,
	}

	var created worksite.WorkSite
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.workSiteRepo.Create(txCtx, site)
		if err != nil {
			return err
		}
		_, err = s.historyRepo.Append(txCtx, worksite.ScheduleHistory{
			WorkSiteID:    created.ID,
			EffectiveFrom: effectiveFrom,
			TimeIn:        created.TimeIn,
			TimeOut:       created.TimeOut,
			BreakHours:    created.BreakHours,
		})
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return worksite.WorkSiteResponse{}, worksite.ErrWorkSiteNameExists
		}
		return worksite.WorkSiteResponse{}, fmt.Errorf("failed to create work site: %w", err)
	}

	s.logger.Info("work site created", zap.String("work_site_id", created.ID), zap.String("name", created.Name))
	s.invalidateFrom(ctx, effectiveFrom)
	return mapWorkSiteToResponse(created), nil
}

// GetWorkSite implements worksite.WorkSiteService.
func (s *WorkSiteServiceImpl) GetWorkSite(ctx context.Context, id string) (worksite.WorkSiteResponse, error) {
	w, err := s.getWorkSite(ctx, id)
	if err != nil {
		return worksite.WorkSiteResponse{}, err
	}
	return mapWorkSiteToResponse(w), nil
}

// ListWorkSites implements worksite.WorkSiteService.
func (s *WorkSiteServiceImpl) ListWorkSites(ctx context.Context, filter worksite.WorkSiteFilter) ([]worksite.WorkSiteResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	sites, err := s.workSiteRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list work sites: %w", err)
	}

	responses := make([]worksite.WorkSiteResponse, 0, len(sites))
	for _, w := range sites {
		responses = append(responses, mapWorkSiteToResponse(w))
	}
	return responses, nil
}

// UpdateWorkSite implements worksite.WorkSiteService. When the schedule
// changes, a history entry is appended in the same transaction; it may not be
// dated before the site's latest entry.
func (s *WorkSiteServiceImpl) UpdateWorkSite(ctx context.Context, req worksite.UpdateWorkSiteRequest) (worksite.WorkSiteResponse, error) {
	if err := req.Validate(); err != nil {
		return worksite.WorkSiteResponse{}, err
	}

	existing, err := s.getWorkSite(ctx, req.ID)
	if err != nil {
		return worksite.WorkSiteResponse{}, err
	}

	timeIn := timeofday.NormalizeNullable(req.TimeIn)
	timeOut := timeofday.NormalizeNullable(req.TimeOut)
	scheduleChanged := existing.ScheduleChanged(timeIn, timeOut, req.BreakHours)

	var effectiveFrom time.Time
	if scheduleChanged {
		effectiveFrom, err = s.effectiveDate(req.EffectiveFrom)
		if err != nil {
			return worksite.WorkSiteResponse{}, err
		}
	}

	updated := existing
	updated.Name = req.Name
	updated.Status = worksite.Status(req.Status)
	updated.TimeIn = timeIn
	updated.TimeOut = timeOut
	updated.BreakHours = req.BreakHours

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if scheduleChanged {
			latest, err := s.historyRepo.GetLatest(txCtx, existing.ID)
			if err != nil {
				return err
			}
			if latest != nil && effectiveFrom.Before(latest.EffectiveFrom) {
				return worksite.ErrEffectiveDateBeforeLast
			}
		}
		if err := s.workSiteRepo.Update(txCtx, updated); err != nil {
			return err
		}
		if !scheduleChanged {
			return nil
		}
		_, err := s.historyRepo.Append(txCtx, worksite.ScheduleHistory{
			WorkSiteID:    existing.ID,
			EffectiveFrom: effectiveFrom,
			TimeIn:        timeIn,
			TimeOut:       timeOut,
			BreakHours:    req.BreakHours,
		})
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, worksite.ErrEffectiveDateBeforeLast):
			return worksite.WorkSiteResponse{}, err
		case errors.Is(err, pgx.ErrNoRows):
			return worksite.WorkSiteResponse{}, worksite.ErrWorkSiteNotFound
		case isUniqueViolation(err):
			return worksite.WorkSiteResponse{}, worksite.ErrWorkSiteNameExists
		}
		return worksite.WorkSiteResponse{}, fmt.Errorf("failed to update work site: %w", err)
	}

	if scheduleChanged {
		s.logger.Info("work site schedule changed",
			zap.String("work_site_id", existing.ID),
			zap.String("effective_from", effectiveFrom.Format("2006-01-02")),
		)
		s.invalidateFrom(ctx, effectiveFrom)
	}

	return s.GetWorkSite(ctx, existing.ID)
}

// DeleteWorkSite implements worksite.WorkSiteService. Sites referenced by
// attendance records cannot be deleted.
func (s *WorkSiteServiceImpl) DeleteWorkSite(ctx context.Context, id string) error {
	if err := s.workSiteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worksite.ErrWorkSiteNotFound
		}
		if isForeignKeyViolation(err) {
			return worksite.ErrWorkSiteInUse
		}
		return fmt.Errorf("failed to delete work site: %w", err)
	}
	return nil
}

// ListScheduleHistory implements worksite.WorkSiteService.
func (s *WorkSiteServiceImpl) ListScheduleHistory(ctx context.Context, id string) ([]worksite.ScheduleHistoryResponse, error) {
	if _, err := s.getWorkSite(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.ListByWorkSite(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule history: %w", err)
	}

	responses := make([]worksite.ScheduleHistoryResponse, 0, len(entries))
	for _, h := range entries {
		responses = append(responses, mapHistoryToResponse(h))
	}
	return responses, nil
}

// GetScheduleOn implements worksite.WorkSiteService. It selects the history
// entry the same way the timesheet resolver does; without one the site's
// current schedule is reported.
func (s *WorkSiteServiceImpl) GetScheduleOn(ctx context.Context, id string, date time.Time) (worksite.EffectiveScheduleResponse, error) {
	site, err := s.getWorkSite(ctx, id)
	if err != nil {
		return worksite.EffectiveScheduleResponse{}, err
	}

	entries, err := s.historyRepo.ListByWorkSite(ctx, id)
	if err != nil {
		return worksite.EffectiveScheduleResponse{}, fmt.Errorf("failed to list schedule history: %w", err)
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	resp := worksite.EffectiveScheduleResponse{
		WorkSiteID: site.ID,
		Date:       day.Format("2006-01-02"),
		Source:     SourceCurrent,
		TimeIn:     site.TimeIn,
		TimeOut:    site.TimeOut,
		BreakHours: site.BreakHours,
	}

	if match, ok := timesheet.EffectiveHistoryEntry(entries, day); ok {
		from := match.EffectiveFrom.Format("2006-01-02")
		resp.Source = SourceHistory
		resp.EffectiveFrom = &from
		resp.TimeIn = match.TimeIn
		resp.TimeOut = match.TimeOut
		resp.BreakHours = match.BreakHours
	}
	return resp, nil
}
