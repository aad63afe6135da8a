package workingdays

import (
	"context"
	"testing"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/holiday"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
}

func (f *fakeHolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	f.holidays = append(f.holidays, h)
	return h, nil
}

func (f *fakeHolidayRepo) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	for _, h := range f.holidays {
		if h.ID == id {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) GetByDate(ctx context.Context, date time.Time) (holiday.Holiday, error) {
	for _, h := range f.holidays {
		if h.Date.Equal(date) {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) Update(ctx context.Context, h holiday.Holiday) error { return nil }

func (f *fakeHolidayRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeHolidayRepo) ListInRange(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculator_Calculate_FullWeek(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(&fakeHolidayRepo{})

	// Monday 2026-03-02 through Sunday 2026-03-08: five working days.
	result, err := calc.Calculate(ctx, day(2026, time.March, 2), day(2026, time.March, 8))

	require.NoError(t, err)
	assert.Equal(t, 7, result.TotalDays)
	assert.Equal(t, 5, result.WorkingDays)
	assert.Equal(t, 2, result.WeekendDays)
	assert.Equal(t, 0, result.HolidayDays)
	assert.Empty(t, result.Holidays)
}

func TestCalculator_Calculate_SingleDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(&fakeHolidayRepo{})

	// A one-day request on a weekday charges one day.
	result, err := calc.Calculate(ctx, day(2026, time.March, 4), day(2026, time.March, 4))

	require.NoError(t, err)
	assert.Equal(t, 1, result.WorkingDays)
	assert.Equal(t, 1, result.TotalDays)
}

func TestCalculator_Calculate_WeekendOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(&fakeHolidayRepo{})

	// Saturday and Sunday charge nothing.
	result, err := calc.Calculate(ctx, day(2026, time.March, 7), day(2026, time.March, 8))

	require.NoError(t, err)
	assert.Equal(t, 0, result.WorkingDays)
	assert.Equal(t, 2, result.WeekendDays)
}

func TestCalculator_Calculate_WeekdayHolidayExcluded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &fakeHolidayRepo{holidays: []holiday.Holiday{
		{ID: "h1", Date: day(2026, time.March, 4), Description: "Jour férié"},
	}}
	calc := NewCalculator(repo)

	result, err := calc.Calculate(ctx, day(2026, time.March, 2), day(2026, time.March, 6))

	require.NoError(t, err)
	assert.Equal(t, 4, result.WorkingDays)
	assert.Equal(t, 1, result.HolidayDays)
	require.Len(t, result.Holidays, 1)
	assert.Equal(t, "2026-03-04", result.Holidays[0].Date)
	assert.Equal(t, "Jour férié", result.Holidays[0].Description)
}

func TestCalculator_Calculate_WeekendHolidayCountsAsWeekend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// A holiday falling on Saturday must not remove a working day.
	repo := &fakeHolidayRepo{holidays: []holiday.Holiday{
		{ID: "h1", Date: day(2026, time.March, 7), Description: "Jour férié"},
	}}
	calc := NewCalculator(repo)

	result, err := calc.Calculate(ctx, day(2026, time.March, 2), day(2026, time.March, 8))

	require.NoError(t, err)
	assert.Equal(t, 5, result.WorkingDays)
	assert.Equal(t, 2, result.WeekendDays)
	assert.Equal(t, 0, result.HolidayDays)
	assert.Empty(t, result.Holidays)
}

func TestCalculator_Calculate_BreakdownSumsToTotal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Two weeks with a weekday holiday and a weekend holiday: the
	// three counters partition the calendar days exactly.
	repo := &fakeHolidayRepo{holidays: []holiday.Holiday{
		{ID: "h1", Date: day(2026, time.March, 4), Description: "Jour férié"},
		{ID: "h2", Date: day(2026, time.March, 7), Description: "Fête"},
	}}
	calc := NewCalculator(repo)

	result, err := calc.Calculate(ctx, day(2026, time.March, 2), day(2026, time.March, 15))

	require.NoError(t, err)
	assert.Equal(t, 14, result.TotalDays)
	assert.Equal(t, 9, result.WorkingDays)
	assert.Equal(t, 4, result.WeekendDays)
	assert.Equal(t, 1, result.HolidayDays)
	assert.Equal(t, result.TotalDays, result.WorkingDays+result.WeekendDays+result.HolidayDays)
	assert.Len(t, result.Holidays, result.HolidayDays)
}

func TestCalculator_Calculate_EndBeforeStart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(&fakeHolidayRepo{})

	_, err := calc.Calculate(ctx, day(2026, time.March, 8), day(2026, time.March, 2))

	assert.ErrorIs(t, err, leave.ErrInvalidRange)
}

func TestCalculator_Calculate_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(&fakeHolidayRepo{})

	start := time.Date(2026, time.March, 2, 23, 30, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 2, 1, 0, 0, 0, time.UTC)

	result, err := calc.Calculate(ctx, start, end)

	require.NoError(t, err)
	assert.Equal(t, 1, result.WorkingDays)
}

func TestCalculator_ElapsedSince_ExcludesStartDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(&fakeHolidayRepo{})

	// Entered Monday, checked Friday: Tue..Fri elapsed.
	elapsed, err := calc.ElapsedSince(ctx, day(2026, time.March, 2), day(2026, time.March, 6))

	require.NoError(t, err)
	assert.Equal(t, 4, elapsed)
}

func TestCalculator_ElapsedSince_SameDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(&fakeHolidayRepo{})

	elapsed, err := calc.ElapsedSince(ctx, day(2026, time.March, 2), day(2026, time.March, 2))

	require.NoError(t, err)
	assert.Equal(t, 0, elapsed)
}

func TestCalculator_ElapsedSince_SkipsWeekend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calc := NewCalculator(&fakeHolidayRepo{})

	// Entered Friday, checked Monday: only Monday counts.
	elapsed, err := calc.ElapsedSince(ctx, day(2026, time.March, 6), day(2026, time.March, 9))

	require.NoError(t, err)
	assert.Equal(t, 1, elapsed)
}
