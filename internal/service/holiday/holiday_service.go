package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/holiday"
)

type HolidayService struct {
	holiday.HolidayRepository
}

func NewHolidayService(holidayRepository holiday.HolidayRepository) *HolidayService {
	return &HolidayService{HolidayRepository: holidayRepository}
}

func (s *HolidayService) Create(ctx context.Context, req holiday.CreateHolidayRequest, creatorID string) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
		Date:        date,
		Description: req.Description,
		CreatedBy:   creatorID,
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	return created.ToResponse(), nil
}

func (s *HolidayService) Update(ctx context.Context, req holiday.UpdateHolidayRequest, updaterID string) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	existing, err := s.HolidayRepository.GetByID(ctx, req.ID)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	existing.Date = date
	existing.Description = req.Description
	existing.UpdatedBy = updaterID

	if err := s.HolidayRepository.Update(ctx, existing); err != nil {
		return holiday.HolidayResponse{}, err
	}

	return existing.ToResponse(), nil
}

func (s *HolidayService) Delete(ctx context.Context, id string) error {
	return s.HolidayRepository.Delete(ctx, id)
}

// ListYear returns the calendar for one year ordered by date.
func (s *HolidayService) ListYear(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	holidays, err := s.HolidayRepository.ListInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, h.ToResponse())
	}
	return responses, nil
}
