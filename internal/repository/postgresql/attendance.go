package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.date, a.status, a.leave_type_id, a.work_site_id,
		   a.time_in, a.time_out, a.created_at, a.updated_at,
		   e.full_name, e.employee_code, lt.code, ws.name
	FROM attendance a
	JOIN employees e ON e.id = a.employee_id
	LEFT JOIN leave_types lt ON lt.id = a.leave_type_id
	LEFT JOIN work_sites ws ON ws.id = a.work_site_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.LeaveTypeID, &a.WorkSiteID,
		&a.TimeIn, &a.TimeOut, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeCode, &a.LeaveTypeCode, &a.WorkSiteName,
	)
	return a, err
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (
			id, employee_id, date, status, leave_type_id, work_site_id, time_in, time_out,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			NOW(), NOW()
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			leave_type_id = EXCLUDED.leave_type_id,
			work_site_id = EXCLUDED.work_site_id,
			time_in = EXCLUDED.time_in,
			time_out = EXCLUDED.time_out,
			updated_at = NOW()
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newID(), a.EmployeeID, a.Date, string(a.Status), a.LeaveTypeID, a.WorkSiteID, a.TimeIn, a.TimeOut,
	).Scan(&id)
	if err != nil {
		return attendance.Attendance{}, err
	}

	return r.GetByID(ctx, id)
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	return scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.employee_id = $1 AND a.date = $2`, employeeID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateTimes implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateTimes(ctx context.Context, id string, timeIn, timeOut *string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE attendance
		SET time_in = $1, time_out = $2, updated_at = NOW()
		WHERE id = $3
	`, timeIn, timeOut, id)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance times: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.Attendance{}, pgx.ErrNoRows
	}

	return r.GetByID(ctx, id)
}

// ListBetween implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListBetween(ctx context.Context, start, end time.Time, employeeID *string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + ` WHERE a.date BETWEEN $1 AND $2`
	args := []interface{}{start, end}
	if employeeID != nil {
		query += ` AND a.employee_id = $3`
		args = append(args, *employeeID)
	}
	query += ` ORDER BY a.date, e.full_name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ListEmployeeIDsOn implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListEmployeeIDsOn(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT employee_id FROM attendance WHERE date = $1`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountByStatusOn implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountByStatusOn(ctx context.Context, date time.Time) (map[attendance.Status]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT a.status, COUNT(*)
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1 AND e.status = 'active'
		GROUP BY a.status
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[attendance.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[attendance.Status(status)] = n
	}
	return counts, rows.Err()
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
