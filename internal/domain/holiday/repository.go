package holiday

import (
	"context"
	"time"
)

// HolidayRepository - interface for public_holidays table
type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	// GetByDate returns the holiday on the given date, or
	// ErrHolidayNotFound when the date is free.
	GetByDate(ctx context.Context, date time.Time) (Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id string) error
	// ListInRange returns holidays in [start, end] ordered by date
	// ascending.
	ListInRange(ctx context.Context, start, end time.Time) ([]Holiday, error)
}
