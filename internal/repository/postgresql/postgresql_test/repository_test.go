package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/employee"
	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/category"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/leavetype"
	"github.com/truewood-ems/ems-backend-go/internal/domain/worksite"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
	"github.com/truewood-ems/ems-backend-go/internal/repository/postgresql"
)

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createEmployee(t *testing.T, ctx context.Context, db *database.DB, code string, categoryID *string) employee.Employee {
	t.Helper()
	e, err := postgresql.NewEmployeeRepository(db).Create(ctx, employee.Employee{
		EmployeeCode: code,
		FullName:     "Employee " + code,
		CategoryID:   categoryID,
		Status:       employee.StatusActive,
	})
	require.NoError(t, err)
	return e
}

func TestAttendanceRepository_UpsertReplacesSameDay(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	emp := createEmployee(t, ctx, db, "TW001", nil)
	repo := postgresql.NewAttendanceRepository(db)

	first, err := repo.Upsert(ctx, attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       day(2024, 3, 4),
		Status:     attendance.StatusPresent,
		TimeIn:     strPtr("09:00"),
		TimeOut:    strPtr("18:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "TW001", *first.EmployeeCode)

	second, err := repo.Upsert(ctx, attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       day(2024, 3, 4),
		Status:     attendance.StatusAbsent,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, attendance.StatusAbsent, second.Status)
	assert.Nil(t, second.TimeIn)

	records, err := repo.ListBetween(ctx, day(2024, 3, 1), day(2024, 3, 31), nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	counts, err := repo.CountByStatusOn(ctx, day(2024, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, counts[attendance.StatusAbsent])

	missing, err := repo.GetByEmployeeAndDate(ctx, emp.ID, day(2024, 3, 5))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_LeaveJoinsCode(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	emp := createEmployee(t, ctx, db, "TW002", nil)
	lt, err := postgresql.NewLeaveTypeRepository(db).Create(ctx, leavetype.LeaveType{Name: "Casual", Code: "CLX", IsPaid: true})
	require.NoError(t, err)

	rec, err := postgresql.NewAttendanceRepository(db).Upsert(ctx, attendance.Attendance{
		EmployeeID:  emp.ID,
		Date:        day(2024, 3, 6),
		Status:      attendance.StatusLeave,
		LeaveTypeID: &lt.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, rec.LeaveTypeCode)
	assert.Equal(t, "CLX", *rec.LeaveTypeCode)
}

func TestScheduleHistoryRepository_OrderAndLatest(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	site, err := postgresql.NewWorkSiteRepository(db).Create(ctx, worksite.WorkSite{
		Name:   "Harbour Yard",
		Status: worksite.StatusActive,
		TimeIn: strPtr("08:00"),
	})
	require.NoError(t, err)

	repo := postgresql.NewScheduleHistoryRepository(db)
	latest, err := repo.GetLatest(ctx, site.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = repo.Append(ctx, worksite.ScheduleHistory{WorkSiteID: site.ID, EffectiveFrom: day(2024, 3, 10), TimeIn: strPtr("07:00")})
	require.NoError(t, err)
	_, err = repo.Append(ctx, worksite.ScheduleHistory{WorkSiteID: site.ID, EffectiveFrom: day(2024, 1, 1), TimeIn: strPtr("08:00")})
	require.NoError(t, err)

	entries, err := repo.ListByWorkSite(ctx, site.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].EffectiveFrom.Before(entries[1].EffectiveFrom))

	until, err := repo.ListEffectiveUntil(ctx, day(2024, 2, 1))
	require.NoError(t, err)
	assert.Len(t, until, 1)

	latest, err = repo.GetLatest(ctx, site.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "07:00", *latest.TimeIn)
}

func TestEmployeeRepository_ListFilters(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	cat, err := postgresql.NewCategoryRepository(db).Create(ctx, category.Category{Name: "Staff"})
	require.NoError(t, err)

	createEmployee(t, ctx, db, "TW010", &cat.ID)
	createEmployee(t, ctx, db, "TW011", nil)

	repo := postgresql.NewEmployeeRepository(db)
	list, total, err := repo.List(ctx, employee.EmployeeFilter{CategoryID: &cat.ID, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Staff", *list[0].CategoryName)

	_, err = repo.GetByEmployeeCode(ctx, "NOPE")
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestWeeklyOffRepository_ReplaceAll(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	repo := postgresql.NewWeeklyOffRepository(db)
	offs := make([]holiday.WeeklyOff, 7)
	for i := range offs {
		offs[i] = holiday.WeeklyOff{Weekday: time.Weekday(i), IsOff: i == int(time.Saturday) || i == int(time.Sunday)}
	}
	require.NoError(t, repo.ReplaceAll(ctx, offs))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 7)
	assert.True(t, got[0].IsOff)
	assert.False(t, got[1].IsOff)
	assert.True(t, got[6].IsOff)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	repo := postgresql.NewHolidayRepository(db)
	errBoom := errors.New("boom")

	err := postgresql.WithTransaction(ctx, db, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, holiday.Holiday{Date: day(2024, 1, 26), Name: "Republic Day"}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	list, err := repo.ListBetween(ctx, day(2024, 1, 1), day(2024, 12, 31))
	require.NoError(t, err)
	assert.Empty(t, list)
}
