package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/truewood-ems/ems-backend-go/internal/domain/worksite"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
)

type workSiteRepositoryImpl struct {
	db *database.DB
}

func NewWorkSiteRepository(db *database.DB) worksite.WorkSiteRepository {
	return &workSiteRepositoryImpl{db: db}
}

const workSiteColumns = `id, name, status, time_in, time_out, break_hours, created_at, updated_at`

func scanWorkSite(row pgx.Row) (worksite.WorkSite, error) {
	var w worksite.WorkSite
	err := row.Scan(&w.ID, &w.Name, &w.Status, &w.TimeIn, &w.TimeOut, &w.BreakHours, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// Create implements worksite.WorkSiteRepository.
func (r *workSiteRepositoryImpl) Create(ctx context.Context, w worksite.WorkSite) (worksite.WorkSite, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_sites (id, name, status, time_in, time_out, break_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, newID(), w.Name, string(w.Status), w.TimeIn, w.TimeOut, w.BreakHours).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return worksite.WorkSite{}, err
	}

	return w, nil
}

// GetByID implements worksite.WorkSiteRepository.
func (r *workSiteRepositoryImpl) GetByID(ctx context.Context, id string) (worksite.WorkSite, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workSiteColumns + ` FROM work_sites WHERE id = $1`

	return scanWorkSite(q.QueryRow(ctx, query, id))
}

// List implements worksite.WorkSiteRepository.
func (r *workSiteRepositoryImpl) List(ctx context.Context, filter worksite.WorkSiteFilter) ([]worksite.WorkSite, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workSiteColumns + ` FROM work_sites WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Name != nil && *filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Name+"%")
		argIdx++
	}
	query += " ORDER BY name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []worksite.WorkSite
	for rows.Next() {
		w, err := scanWorkSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sites, nil
}

// Update implements worksite.WorkSiteRepository. All fields are replaced.
func (r *workSiteRepositoryImpl) Update(ctx context.Context, w worksite.WorkSite) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_sites
		SET name = $1, status = $2, time_in = $3, time_out = $4, break_hours = $5, updated_at = NOW()
		WHERE id = $6
	`

	commandTag, err := q.Exec(ctx, query, w.Name, string(w.Status), w.TimeIn, w.TimeOut, w.BreakHours, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update work site: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete implements worksite.WorkSiteRepository.
func (r *workSiteRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM work_sites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work site: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
