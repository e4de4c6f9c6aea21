package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/truewood-ems/ems-backend-go/internal/domain/worksite"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
)

type scheduleHistoryRepositoryImpl struct {
	db *database.DB
}

func NewScheduleHistoryRepository(db *database.DB) worksite.ScheduleHistoryRepository {
	return &scheduleHistoryRepositoryImpl{db: db}
}

const scheduleHistoryColumns = `id, work_site_id, effective_from, time_in, time_out, break_hours, created_at`

func scanScheduleHistory(row pgx.Row) (worksite.ScheduleHistory, error) {
	var h worksite.ScheduleHistory
	err := row.Scan(&h.ID, &h.WorkSiteID, &h.EffectiveFrom, &h.TimeIn, &h.TimeOut, &h.BreakHours, &h.CreatedAt)
	return h, err
}

func (r *scheduleHistoryRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]worksite.ScheduleHistory, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []worksite.ScheduleHistory
	for rows.Next() {
		h, err := scanScheduleHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Append implements worksite.ScheduleHistoryRepository.
func (r *scheduleHistoryRepositoryImpl) Append(ctx context.Context, h worksite.ScheduleHistory) (worksite.ScheduleHistory, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_site_schedule_history (id, work_site_id, effective_from, time_in, time_out, break_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, clock_timestamp())
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, newID(), h.WorkSiteID, h.EffectiveFrom, h.TimeIn, h.TimeOut, h.BreakHours).
		Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return worksite.ScheduleHistory{}, err
	}
	return h, nil
}

// ListByWorkSite implements worksite.ScheduleHistoryRepository.
func (r *scheduleHistoryRepositoryImpl) ListByWorkSite(ctx context.Context, workSiteID string) ([]worksite.ScheduleHistory, error) {
	return r.list(ctx, `
		SELECT `+scheduleHistoryColumns+`
		FROM work_site_schedule_history
		WHERE work_site_id = $1
		ORDER BY effective_from, created_at
	`, workSiteID)
}

// ListEffectiveUntil implements worksite.ScheduleHistoryRepository.
func (r *scheduleHistoryRepositoryImpl) ListEffectiveUntil(ctx context.Context, until time.Time) ([]worksite.ScheduleHistory, error) {
	return r.list(ctx, `
		SELECT `+scheduleHistoryColumns+`
		FROM work_site_schedule_history
		WHERE effective_from <= $1
		ORDER BY work_site_id, effective_from, created_at
	`, until)
}

// GetLatest implements worksite.ScheduleHistoryRepository. Returns nil when
// the site has no history.
func (r *scheduleHistoryRepositoryImpl) GetLatest(ctx context.Context, workSiteID string) (*worksite.ScheduleHistory, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanScheduleHistory(q.QueryRow(ctx, `
		SELECT `+scheduleHistoryColumns+`
		FROM work_site_schedule_history
		WHERE work_site_id = $1
		ORDER BY effective_from DESC, created_at DESC
		LIMIT 1
	`, workSiteID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
