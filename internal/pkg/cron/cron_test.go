package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMarker struct {
	mu    sync.Mutex
	dates []time.Time
	err   error
}

func (m *recordingMarker) MarkAbsentees(_ context.Context, date time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dates = append(m.dates, date)
	return 3, m.err
}

func TestMarkAbsentEmployees_UsesLocalYesterday(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	marker := &recordingMarker{}
	jobs := NewAttendanceJobs(marker, kolkata, zap.NewNop())
	// 20:00 UTC on the 9th is already the 10th in IST
	jobs.now = func() time.Time { return time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.MarkAbsentEmployees(context.Background()))
	require.Len(t, marker.dates, 1)
	assert.Equal(t, "2024-03-09", marker.dates[0].Format("2006-01-02"))
}

func TestMarkAbsentEmployees_WrapsError(t *testing.T) {
	marker := &recordingMarker{err: errors.New("db down")}
	jobs := NewAttendanceJobs(marker, nil, zap.NewNop())
	jobs.now = func() time.Time { return time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC) }

	err := jobs.MarkAbsentEmployees(context.Background())
	assert.ErrorContains(t, err, "2024-03-09")
	assert.ErrorContains(t, err, "db down")
}

func TestScheduler_RegisterAndRunOnce(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	marker := &recordingMarker{}
	NewAttendanceJobs(marker, time.UTC, zap.NewNop()).RegisterJobs(s, time.Hour)

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "mark_absent_employees", jobs[0].Name)

	s.RunOnce(context.Background())
	assert.Len(t, marker.dates, 1)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
