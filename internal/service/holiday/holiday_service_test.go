package holiday

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/holiday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolidayRepo struct {
	holidays map[string]holiday.Holiday
	nextID   int
}

func newFakeHolidayRepo() *fakeHolidayRepo {
	return &fakeHolidayRepo{holidays: make(map[string]holiday.Holiday)}
}

func (f *fakeHolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	for _, existing := range f.holidays {
		if existing.Date.Equal(h.Date) {
			return holiday.Holiday{}, holiday.ErrDuplicateDate
		}
	}
	f.nextID++
	h.ID = fmt.Sprintf("hol-%d", f.nextID)
	h.CreatedAt = time.Now()
	h.UpdatedAt = time.Now()
	f.holidays[h.ID] = h
	return h, nil
}

func (f *fakeHolidayRepo) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	h, ok := f.holidays[id]
	if !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	return h, nil
}

func (f *fakeHolidayRepo) GetByDate(ctx context.Context, date time.Time) (holiday.Holiday, error) {
	for _, h := range f.holidays {
		if h.Date.Equal(date) {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) Update(ctx context.Context, h holiday.Holiday) error {
	if _, ok := f.holidays[h.ID]; !ok {
		return holiday.ErrHolidayNotFound
	}
	for id, existing := range f.holidays {
		if id != h.ID && existing.Date.Equal(h.Date) {
			return holiday.ErrDuplicateDate
		}
	}
	f.holidays[h.ID] = h
	return nil
}

func (f *fakeHolidayRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.holidays[id]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(f.holidays, id)
	return nil
}

func (f *fakeHolidayRepo) ListInRange(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func TestHolidayService_Create_Success(t *testing.T) {
	t.Parallel()
	svc := NewHolidayService(newFakeHolidayRepo())

	resp, err := svc.Create(context.Background(), holiday.CreateHolidayRequest{
		Date:        "2026-04-04",
		Description: "Fête de l'Indépendance",
	}, "dgpec-1")

	require.NoError(t, err)
	assert.Equal(t, "2026-04-04", resp.Date)
	assert.Equal(t, "Fête de l'Indépendance", resp.Description)
	assert.Equal(t, "dgpec-1", resp.CreatedBy)
}

func TestHolidayService_Create_DuplicateDate(t *testing.T) {
	t.Parallel()
	svc := NewHolidayService(newFakeHolidayRepo())

	_, err := svc.Create(context.Background(), holiday.CreateHolidayRequest{
		Date:        "2026-04-04",
		Description: "Fête de l'Indépendance",
	}, "dgpec-1")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), holiday.CreateHolidayRequest{
		Date:        "2026-04-04",
		Description: "Doublon",
	}, "dgpec-1")

	assert.ErrorIs(t, err, holiday.ErrDuplicateDate)
}

func TestHolidayService_Create_InvalidDate(t *testing.T) {
	t.Parallel()
	svc := NewHolidayService(newFakeHolidayRepo())

	_, err := svc.Create(context.Background(), holiday.CreateHolidayRequest{
		Date:        "04/04/2026",
		Description: "Format invalide",
	}, "dgpec-1")

	assert.Error(t, err)
}

func TestHolidayService_Update_Success(t *testing.T) {
	t.Parallel()
	svc := NewHolidayService(newFakeHolidayRepo())

	created, err := svc.Create(context.Background(), holiday.CreateHolidayRequest{
		Date:        "2026-05-01",
		Description: "Fête du Travail",
	}, "dgpec-1")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), holiday.UpdateHolidayRequest{
		ID:          created.ID,
		Date:        "2026-05-01",
		Description: "Fête du Travail (férié)",
	}, "dgpec-2")

	require.NoError(t, err)
	assert.Equal(t, "Fête du Travail (férié)", updated.Description)
	assert.Equal(t, "dgpec-2", updated.UpdatedBy)
}

func TestHolidayService_Update_NotFound(t *testing.T) {
	t.Parallel()
	svc := NewHolidayService(newFakeHolidayRepo())

	_, err := svc.Update(context.Background(), holiday.UpdateHolidayRequest{
		ID:          "missing",
		Date:        "2026-05-01",
		Description: "Inexistant",
	}, "dgpec-1")

	assert.ErrorIs(t, err, holiday.ErrHolidayNotFound)
}

func TestHolidayService_Delete(t *testing.T) {
	t.Parallel()
	repo := newFakeHolidayRepo()
	svc := NewHolidayService(repo)

	created, err := svc.Create(context.Background(), holiday.CreateHolidayRequest{
		Date:        "2026-08-15",
		Description: "Assomption",
	}, "dgpec-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), holiday.ErrHolidayNotFound)
}

func TestHolidayService_ListYear(t *testing.T) {
	t.Parallel()
	svc := NewHolidayService(newFakeHolidayRepo())

	for _, h := range []holiday.CreateHolidayRequest{
		{Date: "2026-12-25", Description: "Noël"},
		{Date: "2026-01-01", Description: "Jour de l'An"},
		{Date: "2027-01-01", Description: "Jour de l'An"},
	} {
		_, err := svc.Create(context.Background(), h, "dgpec-1")
		require.NoError(t, err)
	}

	responses, err := svc.ListYear(context.Background(), 2026)

	require.NoError(t, err)
	require.Len(t, responses, 2)
	// Ordered by date, and the next year's entry excluded.
	assert.Equal(t, "2026-01-01", responses[0].Date)
	assert.Equal(t, "2026-12-25", responses[1].Date)
}
