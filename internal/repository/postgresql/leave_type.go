package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/truewood-ems/ems-backend-go/internal/domain/master/leavetype"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leavetype.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

// Create implements leavetype.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType leavetype.LeaveType) (leavetype.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_types (id, name, code, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, newID(), leaveType.Name, leaveType.Code, leaveType.IsPaid).
		Scan(&leaveType.ID, &leaveType.CreatedAt, &leaveType.UpdatedAt)
	if err != nil {
		return leavetype.LeaveType{}, err
	}

	return leaveType, nil
}

// GetByID implements leavetype.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leavetype.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, name, code, is_paid, created_at, updated_at
		FROM leave_types
		WHERE id = $1
	`

	var lt leavetype.LeaveType
	err := q.QueryRow(ctx, query, id).Scan(
		&lt.ID, &lt.Name, &lt.Code, &lt.IsPaid, &lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		return leavetype.LeaveType{}, err
	}

	return lt, nil
}

// List implements leavetype.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) List(ctx context.Context) ([]leavetype.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, name, code, is_paid, created_at, updated_at
		FROM leave_types
		ORDER BY code
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaveTypes []leavetype.LeaveType
	for rows.Next() {
		var lt leavetype.LeaveType
		if err := rows.Scan(
			&lt.ID, &lt.Name, &lt.Code, &lt.IsPaid, &lt.CreatedAt, &lt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leaveTypes = append(leaveTypes, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leaveTypes, nil
}

// Update implements leavetype.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Update(ctx context.Context, req leavetype.UpdateLeaveTypeRequest) error {
	q := GetQuerier(ctx, l.db)

	query := `UPDATE leave_types SET updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	if req.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIdx)
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Code != nil {
		query += fmt.Sprintf(", code = $%d", argIdx)
		args = append(args, *req.Code)
		argIdx++
	}
	if req.IsPaid != nil {
		query += fmt.Sprintf(", is_paid = $%d", argIdx)
		args = append(args, *req.IsPaid)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, req.ID)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update leave type: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete implements leavetype.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, l.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM leave_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}
