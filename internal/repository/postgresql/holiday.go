package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO holidays (id, date, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, newID(), h.Date, h.Name).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return holiday.Holiday{}, err
	}
	return h, nil
}

// GetByID implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	var h holiday.Holiday
	err := q.QueryRow(ctx, `
		SELECT id, date, name, created_at, updated_at
		FROM holidays
		WHERE id = $1
	`, id).Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return holiday.Holiday{}, err
	}
	return h, nil
}

// ListBetween implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListBetween(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, date, name, created_at, updated_at
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return holidays, nil
}

// Update implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE holidays SET date = $1, name = $2, updated_at = NOW()
		WHERE id = $3
	`, h.Date, h.Name, h.ID)
	if err != nil {
		return fmt.Errorf("failed to update holiday: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type weeklyOffRepositoryImpl struct {
	db *database.DB
}

func NewWeeklyOffRepository(db *database.DB) holiday.WeeklyOffRepository {
	return &weeklyOffRepositoryImpl{db: db}
}

// List implements holiday.WeeklyOffRepository.
func (r *weeklyOffRepositoryImpl) List(ctx context.Context) ([]holiday.WeeklyOff, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT weekday, is_off FROM weekly_offs ORDER BY weekday`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offs []holiday.WeeklyOff
	for rows.Next() {
		var weekday int16
		var o holiday.WeeklyOff
		if err := rows.Scan(&weekday, &o.IsOff); err != nil {
			return nil, err
		}
		o.Weekday = time.Weekday(weekday)
		offs = append(offs, o)
	}
	return offs, rows.Err()
}

// ReplaceAll implements holiday.WeeklyOffRepository.
func (r *weeklyOffRepositoryImpl) ReplaceAll(ctx context.Context, offs []holiday.WeeklyOff) error {
	q := GetQuerier(ctx, r.db)

	for _, o := range offs {
		_, err := q.Exec(ctx, `
			INSERT INTO weekly_offs (weekday, is_off) VALUES ($1, $2)
			ON CONFLICT (weekday) DO UPDATE SET is_off = EXCLUDED.is_off
		`, int16(o.Weekday), o.IsOff)
		if err != nil {
			return fmt.Errorf("failed to save weekly off %s: %w", o.Weekday, err)
		}
	}
	return nil
}
