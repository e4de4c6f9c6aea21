package worksite

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/domain/report"
	"github.com/truewood-ems/ems-backend-go/internal/domain/worksite"
)

type fakeWorkSiteRepo struct {
	sites map[string]worksite.WorkSite
	seq   int
}

func (r *fakeWorkSiteRepo) Create(_ context.Context, w worksite.WorkSite) (worksite.WorkSite, error) {
	for _, existing := range r.sites {
		if existing.Name == w.Name {
			return worksite.WorkSite{}, &pgconn.PgError{Code: "23505"}
		}
	}
	r.seq++
	w.ID = fmt.Sprintf("ws%d", r.seq)
	r.sites[w.ID] = w
	return w, nil
}

func (r *fakeWorkSiteRepo) GetByID(_ context.Context, id string) (worksite.WorkSite, error) {
	w, ok := r.sites[id]
	if !ok {
		return worksite.WorkSite{}, pgx.ErrNoRows
	}
	return w, nil
}

func (r *fakeWorkSiteRepo) List(context.Context, worksite.WorkSiteFilter) ([]worksite.WorkSite, error) {
	var out []worksite.WorkSite
	for _, w := range r.sites {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeWorkSiteRepo) Update(_ context.Context, w worksite.WorkSite) error {
	if _, ok := r.sites[w.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.sites[w.ID] = w
	return nil
}

func (r *fakeWorkSiteRepo) Delete(_ context.Context, id string) error {
	if id == "referenced" {
		return &pgconn.PgError{Code: "23503"}
	}
	if _, ok := r.sites[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.sites, id)
	return nil
}

type fakeHistoryRepo struct {
	entries []worksite.ScheduleHistory
}

func (r *fakeHistoryRepo) Append(_ context.Context, h worksite.ScheduleHistory) (worksite.ScheduleHistory, error) {
	h.ID = fmt.Sprintf("h%d", len(r.entries)+1)
	r.entries = append(r.entries, h)
	return h, nil
}

func (r *fakeHistoryRepo) ListByWorkSite(_ context.Context, id string) ([]worksite.ScheduleHistory, error) {
	var out []worksite.ScheduleHistory
	for _, h := range r.entries {
		if h.WorkSiteID == id {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EffectiveFrom.Before(out[j].EffectiveFrom) })
	return out, nil
}

func (r *fakeHistoryRepo) ListEffectiveUntil(context.Context, time.Time) ([]worksite.ScheduleHistory, error) {
	return r.entries, nil
}

func (r *fakeHistoryRepo) GetLatest(ctx context.Context, id string) (*worksite.ScheduleHistory, error) {
	entries, _ := r.ListByWorkSite(ctx, id)
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[len(entries)-1], nil
}

// fakeTx runs fn directly and discards history appended by a failed fn.
type fakeTx struct {
	history *fakeHistoryRepo
}

func (t fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	n := len(t.history.entries)
	if err := fn(ctx); err != nil {
		t.history.entries = t.history.entries[:n]
		return err
	}
	return nil
}

type fakeReportCache struct {
	report.ReportCache
	invalidated []string
}

func (c *fakeReportCache) Invalidate(_ context.Context, year, month int) error {
	c.invalidated = append(c.invalidated, fmt.Sprintf("%04d-%02d", year, month))
	return nil
}

func newTestService() (*WorkSiteServiceImpl, *fakeWorkSiteRepo, *fakeHistoryRepo) {
	svc, sites, history, _ := newTestServiceWithCache()
	return svc, sites, history
}

func newTestServiceWithCache() (*WorkSiteServiceImpl, *fakeWorkSiteRepo, *fakeHistoryRepo, *fakeReportCache) {
	sites := &fakeWorkSiteRepo{sites: map[string]worksite.WorkSite{}}
	history := &fakeHistoryRepo{}
	cache := &fakeReportCache{}
	svc := NewWorkSiteService(sites, history, fakeTx{history: history}, cache, zap.NewNop()).(*WorkSiteServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }
	return svc, sites, history, cache
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestCreateWorkSite_RecordsInitialHistory(t *testing.T) {
	svc, _, history := newTestService()

	resp, err := svc.CreateWorkSite(context.Background(), worksite.CreateWorkSiteRequest{
		Name:       "Riverside",
		TimeIn:     strPtr("9:0"),
		TimeOut:    strPtr("18:00"),
		BreakHours: floatPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "09:00", *resp.TimeIn)

	require.Len(t, history.entries, 1)
	assert.Equal(t, resp.ID, history.entries[0].WorkSiteID)
	assert.Equal(t, "2024-03-10", history.entries[0].EffectiveFrom.Format("2006-01-02"))

	_, err = svc.CreateWorkSite(context.Background(), worksite.CreateWorkSiteRequest{Name: "Riverside"})
	assert.ErrorIs(t, err, worksite.ErrWorkSiteNameExists)
	assert.Len(t, history.entries, 1)
}

func TestUpdateWorkSite_History(t *testing.T) {
	svc, _, history := newTestService()
	ctx := context.Background()

	created, err := svc.CreateWorkSite(ctx, worksite.CreateWorkSiteRequest{
		Name:          "Riverside",
		TimeIn:        strPtr("09:00"),
		TimeOut:       strPtr("18:00"),
		EffectiveFrom: strPtr("2024-01-01"),
	})
	require.NoError(t, err)

	// rename only: no history entry
	_, err = svc.UpdateWorkSite(ctx, worksite.UpdateWorkSiteRequest{
		ID: created.ID, Name: "Riverside East", Status: "active",
		TimeIn: strPtr("09:00"), TimeOut: strPtr("18:00"),
	})
	require.NoError(t, err)
	assert.Len(t, history.entries, 1)

	resp, err := svc.UpdateWorkSite(ctx, worksite.UpdateWorkSiteRequest{
		ID: created.ID, Name: "Riverside East", Status: "active",
		TimeIn: strPtr("08:00"), TimeOut: strPtr("17:00"),
		EffectiveFrom: strPtr("2024-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "08:00", *resp.TimeIn)
	require.Len(t, history.entries, 2)

	_, err = svc.UpdateWorkSite(ctx, worksite.UpdateWorkSiteRequest{
		ID: created.ID, Name: "Riverside East", Status: "active",
		TimeIn: strPtr("07:00"), TimeOut: strPtr("16:00"),
		EffectiveFrom: strPtr("2024-01-15"),
	})
	assert.ErrorIs(t, err, worksite.ErrEffectiveDateBeforeLast)
	assert.Len(t, history.entries, 2)

	_, err = svc.UpdateWorkSite(ctx, worksite.UpdateWorkSiteRequest{ID: "missing", Name: "X", Status: "active"})
	assert.ErrorIs(t, err, worksite.ErrWorkSiteNotFound)
}

func TestUpdateWorkSite_InvalidatesReportsFromEffectiveMonth(t *testing.T) {
	svc, _, _, cache := newTestServiceWithCache()
	ctx := context.Background()

	created, err := svc.CreateWorkSite(ctx, worksite.CreateWorkSiteRequest{
		Name:          "Riverside",
		TimeIn:        strPtr("09:00"),
		TimeOut:       strPtr("18:00"),
		EffectiveFrom: strPtr("2024-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, cache.invalidated)

	// rename only: schedule untouched, cache kept
	cache.invalidated = nil
	_, err = svc.UpdateWorkSite(ctx, worksite.UpdateWorkSiteRequest{
		ID: created.ID, Name: "Riverside East", Status: "active",
		TimeIn: strPtr("09:00"), TimeOut: strPtr("18:00"),
	})
	require.NoError(t, err)
	assert.Empty(t, cache.invalidated)

	// back-dated change reaches into earlier working months
	_, err = svc.UpdateWorkSite(ctx, worksite.UpdateWorkSiteRequest{
		ID: created.ID, Name: "Riverside East", Status: "active",
		TimeIn: strPtr("08:00"), TimeOut: strPtr("17:00"),
		EffectiveFrom: strPtr("2024-01-27"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02", "2024-03"}, cache.invalidated)

	// rejected change leaves the cache alone
	cache.invalidated = nil
	_, err = svc.UpdateWorkSite(ctx, worksite.UpdateWorkSiteRequest{
		ID: created.ID, Name: "Riverside East", Status: "active",
		TimeIn: strPtr("07:00"), TimeOut: strPtr("16:00"),
		EffectiveFrom: strPtr("2024-01-02"),
	})
	assert.ErrorIs(t, err, worksite.ErrEffectiveDateBeforeLast)
	assert.Empty(t, cache.invalidated)
}

func TestGetScheduleOn_EmptyEntryFallsBackToCurrent(t *testing.T) {
	svc, sites, history := newTestService()
	ctx := context.Background()

	sites.sites["ws1"] = worksite.WorkSite{ID: "ws1", Name: "Annex", Status: worksite.StatusActive, TimeIn: strPtr("07:00"), TimeOut: strPtr("15:00")}
	history.entries = []worksite.ScheduleHistory{
		{WorkSiteID: "ws1", EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), BreakHours: floatPtr(0.5)},
		{WorkSiteID: "ws1", EffectiveFrom: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	resp, err := svc.GetScheduleOn(ctx, "ws1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, SourceHistory, resp.Source)
	assert.Nil(t, resp.TimeIn)
	assert.Equal(t, 0.5, *resp.BreakHours)

	resp, err = svc.GetScheduleOn(ctx, "ws1", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, SourceCurrent, resp.Source)
	assert.Equal(t, "07:00", *resp.TimeIn)
}

func TestGetScheduleOn(t *testing.T) {
	svc, sites, history := newTestService()
	ctx := context.Background()

	sites.sites["ws1"] = worksite.WorkSite{ID: "ws1", Name: "Depot", Status: worksite.StatusActive, TimeIn: strPtr("10:00"), TimeOut: strPtr("19:00")}
	history.entries = []worksite.ScheduleHistory{
		{WorkSiteID: "ws1", EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TimeIn: strPtr("09:00"), TimeOut: strPtr("18:00")},
		{WorkSiteID: "ws1", EffectiveFrom: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), TimeIn: strPtr("08:00"), TimeOut: strPtr("17:00")},
	}

	tests := []struct {
		name   string
		date   time.Time
		source string
		timeIn string
	}{
		{"before any history", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), SourceCurrent, "10:00"},
		{"first entry", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), SourceHistory, "09:00"},
		{"on effective date", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), SourceHistory, "08:00"},
		{"later", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), SourceHistory, "08:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetScheduleOn(ctx, "ws1", tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.source, resp.Source)
			assert.Equal(t, tt.timeIn, *resp.TimeIn)
		})
	}

	_, err := svc.GetScheduleOn(ctx, "missing", time.Now())
	assert.ErrorIs(t, err, worksite.ErrWorkSiteNotFound)
}

func TestDeleteWorkSite(t *testing.T) {
	svc, sites, _ := newTestService()
	sites.sites["ws1"] = worksite.WorkSite{ID: "ws1", Name: "Depot"}

	assert.NoError(t, svc.DeleteWorkSite(context.Background(), "ws1"))
	assert.ErrorIs(t, svc.DeleteWorkSite(context.Background(), "ws1"), worksite.ErrWorkSiteNotFound)
	assert.ErrorIs(t, svc.DeleteWorkSite(context.Background(), "referenced"), worksite.ErrWorkSiteInUse)
}
