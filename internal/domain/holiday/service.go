package holiday

import (
	"context"
	"io"
	"time"
)

type HolidayService interface {
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetHoliday(ctx context.Context, id string) (HolidayResponse, error)
	ListHolidays(ctx context.Context, year int) ([]HolidayResponse, error)
	UpdateHoliday(ctx context.Context, req UpdateHolidayRequest) (HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error

	GetWeeklyOffs(ctx context.Context) ([]WeeklyOffResponse, error)
	UpdateWeeklyOffs(ctx context.Context, req UpdateWeeklyOffsRequest) ([]WeeklyOffResponse, error)

	// GetCalendar loads holidays between start and end together with the weekly-off configuration.
	GetCalendar(ctx context.Context, start, end time.Time) (Calendar, error)

	// ExportICS renders the year's holidays as an iCalendar feed.
	ExportICS(ctx context.Context, year int) ([]byte, error)

	// ImportICS creates a holiday for every all-day event in the feed.
	// Dates that already have a holiday are skipped.
	ImportICS(ctx context.Context, r io.Reader) (ImportHolidaysResponse, error)
}
