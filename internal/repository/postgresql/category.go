package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/truewood-ems/ems-backend-go/internal/domain/master/category"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
)

type categoryRepositoryImpl struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) category.CategoryRepository {
	return &categoryRepositoryImpl{db: db}
}

// Create implements category.CategoryRepository.
func (r *categoryRepositoryImpl) Create(ctx context.Context, c category.Category) (category.Category, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO categories (id, name, time_in, time_out, break_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, newID(), c.Name, c.TimeIn, c.TimeOut, c.BreakHours).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return category.Category{}, err
	}

	return c, nil
}

// GetByID implements category.CategoryRepository.
func (r *categoryRepositoryImpl) GetByID(ctx context.Context, id string) (category.Category, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, time_in, time_out, break_hours, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	var c category.Category
	err := q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.TimeIn, &c.TimeOut, &c.BreakHours, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return category.Category{}, err
	}

	return c, nil
}

// List implements category.CategoryRepository.
func (r *categoryRepositoryImpl) List(ctx context.Context) ([]category.Category, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, time_in, time_out, break_hours, created_at, updated_at
		FROM categories
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []category.Category
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.TimeIn, &c.TimeOut, &c.BreakHours, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// Update implements category.CategoryRepository. Nil fields are left
// unchanged; an empty time clears the column.
func (r *categoryRepositoryImpl) Update(ctx context.Context, req category.UpdateCategoryRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE categories SET updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	if req.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIdx)
		args = append(args, *req.Name)
		argIdx++
	}
	if req.TimeIn != nil {
		query += fmt.Sprintf(", time_in = NULLIF($%d, '')", argIdx)
		args = append(args, *req.TimeIn)
		argIdx++
	}
	if req.TimeOut != nil {
		query += fmt.Sprintf(", time_out = NULLIF($%d, '')", argIdx)
		args = append(args, *req.TimeOut)
		argIdx++
	}
	if req.BreakHours != nil {
		query += fmt.Sprintf(", break_hours = $%d", argIdx)
		args = append(args, *req.BreakHours)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, req.ID)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete implements category.CategoryRepository.
func (r *categoryRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
