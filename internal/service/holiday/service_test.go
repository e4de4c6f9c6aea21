package holiday

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/export"
)

type fakeHolidayRepo struct {
	holiday.HolidayRepository
	byID map[string]holiday.Holiday
	seq  int
}

func newFakeHolidayRepo(existing ...holiday.Holiday) *fakeHolidayRepo {
	r := &fakeHolidayRepo{byID: map[string]holiday.Holiday{}}
	for _, h := range existing {
		r.byID[h.ID] = h
	}
	return r
}

func (r *fakeHolidayRepo) dateTaken(d time.Time, exceptID string) bool {
	for id, h := range r.byID {
		if id != exceptID && h.Date.Equal(d) {
			return true
		}
	}
	return false
}

func (r *fakeHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	if r.dateTaken(h.Date, "") {
		return holiday.Holiday{}, &pgconn.PgError{Code: "23505"}
	}
	r.seq++
	h.ID = fmt.Sprintf("h%d", r.seq)
	r.byID[h.ID] = h
	return h, nil
}

func (r *fakeHolidayRepo) GetByID(_ context.Context, id string) (holiday.Holiday, error) {
	h, ok := r.byID[id]
	if !ok {
		return holiday.Holiday{}, pgx.ErrNoRows
	}
	return h, nil
}

func (r *fakeHolidayRepo) ListBetween(_ context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range r.byID {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHolidayRepo) Update(_ context.Context, h holiday.Holiday) error {
	if r.dateTaken(h.Date, h.ID) {
		return &pgconn.PgError{Code: "23505"}
	}
	r.byID[h.ID] = h
	return nil
}

func (r *fakeHolidayRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fakeWeeklyOffRepo struct {
	offs []holiday.WeeklyOff
}

func (r *fakeWeeklyOffRepo) List(context.Context) ([]holiday.WeeklyOff, error) { return r.offs, nil }

func (r *fakeWeeklyOffRepo) ReplaceAll(_ context.Context, offs []holiday.WeeklyOff) error {
	r.offs = offs
	return nil
}

type fakeReportCache struct {
	report.ReportCache
	invalidated []string
}

func (c *fakeReportCache) Invalidate(_ context.Context, year, month int) error {
	c.invalidated = append(c.invalidated, report.MonthlyCacheKey(year, month))
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(repo *fakeHolidayRepo, cache *fakeReportCache) holiday.HolidayService {
	return NewHolidayService(repo, &fakeWeeklyOffRepo{}, cache, "True Wood", zap.NewNop())
}

func TestCreateHoliday_InvalidatesWorkingMonth(t *testing.T) {
	cache := &fakeReportCache{}
	svc := newService(newFakeHolidayRepo(), cache)

	resp, err := svc.CreateHoliday(context.Background(), holiday.CreateHolidayRequest{Date: "2024-03-28", Name: "Festival"})
	require.NoError(t, err)
	assert.Equal(t, "Thursday", resp.Weekday)
	// Mar 28 falls in the April working month.
	assert.Equal(t, []string{"report:monthly:2024-04"}, cache.invalidated)
}

func TestCreateHoliday_DuplicateDate(t *testing.T) {
	repo := newFakeHolidayRepo(holiday.Holiday{ID: "h1", Date: day(2024, 1, 26), Name: "Republic Day"})
	svc := newService(repo, &fakeReportCache{})

	_, err := svc.CreateHoliday(context.Background(), holiday.CreateHolidayRequest{Date: "2024-01-26", Name: "Again"})
	assert.ErrorIs(t, err, holiday.ErrHolidayDateExists)
}

func TestUpdateHoliday_MovesDate(t *testing.T) {
	repo := newFakeHolidayRepo(holiday.Holiday{ID: "h1", Date: day(2024, 1, 20), Name: "Harvest"})
	cache := &fakeReportCache{}
	svc := newService(repo, cache)

	newDate := "2024-01-27"
	resp, err := svc.UpdateHoliday(context.Background(), holiday.UpdateHolidayRequest{ID: "h1", Date: &newDate})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-27", resp.Date)
	assert.Equal(t, "Harvest", resp.Name)
	assert.Equal(t, []string{"report:monthly:2024-01", "report:monthly:2024-02"}, cache.invalidated)

	_, err = svc.UpdateHoliday(context.Background(), holiday.UpdateHolidayRequest{ID: "missing", Date: &newDate})
	assert.ErrorIs(t, err, holiday.ErrHolidayNotFound)
}

func TestWeeklyOffs(t *testing.T) {
	svc := newService(newFakeHolidayRepo(), &fakeReportCache{})

	resp, err := svc.UpdateWeeklyOffs(context.Background(), holiday.UpdateWeeklyOffsRequest{OffDays: []int{0, 6}})
	require.NoError(t, err)
	require.Len(t, resp, 7)
	assert.True(t, resp[0].IsOff)
	assert.Equal(t, "Sunday", resp[0].Name)
	assert.False(t, resp[3].IsOff)
	assert.True(t, resp[6].IsOff)

	_, err = svc.UpdateWeeklyOffs(context.Background(), holiday.UpdateWeeklyOffsRequest{OffDays: []int{7}})
	assert.Error(t, err)

	cal, err := svc.GetCalendar(context.Background(), day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	assert.True(t, cal.IsWeeklyOff(day(2024, 1, 6)))
	assert.False(t, cal.IsWeeklyOff(day(2024, 1, 8)))
}

func TestImportICS(t *testing.T) {
	repo := newFakeHolidayRepo(holiday.Holiday{ID: "h1", Date: day(2024, 1, 26), Name: "Republic Day"})
	svc := newService(repo, &fakeReportCache{})

	feed, err := export.HolidayFeed("True Wood", []holiday.Holiday{
		{ID: "a", Date: day(2024, 1, 26), Name: "Republic Day"},
		{ID: "b", Date: day(2024, 8, 15), Name: "Independence Day"},
	}, day(2024, 1, 1))
	require.NoError(t, err)

	resp, err := svc.ImportICS(context.Background(), bytes.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, resp.Created, 1)
	assert.Equal(t, "2024-08-15", resp.Created[0].Date)
	assert.Equal(t, []string{"2024-01-26"}, resp.Skipped)

	_, err = svc.ImportICS(context.Background(), strings.NewReader("garbage"))
	assert.ErrorIs(t, err, holiday.ErrInvalidCalendar)
}

func TestExportICS(t *testing.T) {
	repo := newFakeHolidayRepo(holiday.Holiday{ID: "h1", Date: day(2024, 1, 26), Name: "Republic Day"})
	svc := newService(repo, &fakeReportCache{})

	feed, err := svc.ExportICS(context.Background(), 2024)
	require.NoError(t, err)
	assert.Contains(t, string(feed), "SUMMARY:Republic Day")
}
