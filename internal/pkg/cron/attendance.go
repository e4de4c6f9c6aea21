package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AbsenteeMarker records unmarked active employees as absent for a date.
type AbsenteeMarker interface {
	MarkAbsentees(ctx context.Context, date time.Time) (int, error)
}

type AttendanceJobs struct {
	marker   AbsenteeMarker
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewAttendanceJobs builds the attendance jobs. "Yesterday" is computed in location.
func NewAttendanceJobs(marker AbsenteeMarker, location *time.Location, logger *zap.Logger) *AttendanceJobs {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceJobs{
		marker:   marker,
		location: location,
		logger:   logger.Named("cron.attendance"),
		now:      time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees marks everyone without a record yesterday as Absent.
// Holidays and weekly offs are left alone. Re-running for the same day is a no-op.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	local := j.now().In(j.location)
	yesterday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	n, err := j.marker.MarkAbsentees(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("mark absentees for %s: %w", yesterday.Format("2006-01-02"), err)
	}

	j.logger.Info("absentees marked",
		zap.String("date", yesterday.Format("2006-01-02")),
		zap.Int("count", n),
	)
	return nil
}
