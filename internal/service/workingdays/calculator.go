// Package workingdays breaks a leave date range down day by day:
// every calendar day is working, weekend, or holiday, and only the
// working days charge against a quota.
package workingdays

import (
	"context"
	"fmt"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/holiday"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
)

// HolidayInfo is one public holiday that removed a working day from
// the calculated range.
type HolidayInfo struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Calculation is the full breakdown of a date range. Weekend takes
// precedence when a holiday falls on one, so the three counters
// always sum to TotalDays.
type Calculation struct {
	TotalDays   int           `json:"total_days"`
	WorkingDays int           `json:"working_days"`
	WeekendDays int           `json:"weekend_days"`
	HolidayDays int           `json:"holiday_days"`
	Holidays    []HolidayInfo `json:"holidays"`
}

type Calculator struct {
	holiday.HolidayRepository
}

func NewCalculator(holidayRepository holiday.HolidayRepository) *Calculator {
	return &Calculator{HolidayRepository: holidayRepository}
}

// Calculate classifies every day in [start, end], both bounds
// inclusive. Saturdays and Sundays count as weekend whether or not a
// public holiday falls on them; Holidays lists only the weekday
// holidays that reduced the working count.
func (c *Calculator) Calculate(ctx context.Context, start, end time.Time) (Calculation, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)

	if end.Before(start) {
		return Calculation{}, leave.ErrInvalidRange
	}

	holidays, err := c.HolidayRepository.ListInRange(ctx, start, end)
	if err != nil {
		return Calculation{}, fmt.Errorf("failed to load holidays: %w", err)
	}

	byDate := make(map[string]holiday.Holiday, len(holidays))
	for _, h := range holidays {
		byDate[h.Date.Format("2006-01-02")] = h
	}

	calc := Calculation{Holidays: make([]HolidayInfo, 0)}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		calc.TotalDays++

		if isWeekend(d) {
			calc.WeekendDays++
			continue
		}

		key := d.Format("2006-01-02")
		if h, isHoliday := byDate[key]; isHoliday {
			calc.HolidayDays++
			calc.Holidays = append(calc.Holidays, HolidayInfo{
				Date:        key,
				Description: h.Description,
			})
			continue
		}

		calc.WorkingDays++
	}

	return calc, nil
}

// ElapsedSince returns the number of working days in (since, now].
// Used to measure how long a request has been stalled in a stage.
func (c *Calculator) ElapsedSince(ctx context.Context, since, now time.Time) (int, error) {
	since = truncateToDate(since)
	now = truncateToDate(now)

	if !now.After(since) {
		return 0, nil
	}

	calc, err := c.Calculate(ctx, since.AddDate(0, 0, 1), now)
	if err != nil {
		return 0, err
	}
	return calc.WorkingDays, nil
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
