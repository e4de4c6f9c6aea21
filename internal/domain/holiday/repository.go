package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	// ListBetween returns holidays with start <= date <= end, ordered by date.
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
	Update(ctx context.Context, holiday Holiday) error
	Delete(ctx context.Context, id string) error
}

type WeeklyOffRepository interface {
	List(ctx context.Context) ([]WeeklyOff, error)
	// ReplaceAll overwrites the seven weekday rows.
	ReplaceAll(ctx context.Context, offs []WeeklyOff) error
}
