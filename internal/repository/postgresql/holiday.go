package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/holiday"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO public_holidays (
			id, date, description, created_by, updated_by, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $3, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, h.Date, h.Description, h.CreatedBy).
		Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return holiday.Holiday{}, holiday.ErrDuplicateDate
		}
		return holiday.Holiday{}, err
	}
	h.UpdatedBy = h.CreatedBy

	return h, nil
}

func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, description, created_by, updated_by, created_at, updated_at
		FROM public_holidays
		WHERE id = $1
	`

	var h holiday.Holiday
	err := q.QueryRow(ctx, query, id).
		Scan(&h.ID, &h.Date, &h.Description, &h.CreatedBy, &h.UpdatedBy, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, err
	}

	return h, nil
}

func (r *holidayRepositoryImpl) GetByDate(ctx context.Context, date time.Time) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, description, created_by, updated_by, created_at, updated_at
		FROM public_holidays
		WHERE date = $1
	`

	var h holiday.Holiday
	err := q.QueryRow(ctx, query, date).
		Scan(&h.ID, &h.Date, &h.Description, &h.CreatedBy, &h.UpdatedBy, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, err
	}

	return h, nil
}

func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE public_holidays
		SET date = $1, description = $2, updated_by = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, h.Date, h.Description, h.UpdatedBy, h.ID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return holiday.ErrHolidayNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return holiday.ErrDuplicateDate
		}
		return err
	}
	return nil
}

func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM public_holidays
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

func (r *holidayRepositoryImpl) ListInRange(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, description, created_by, updated_by, created_at, updated_at
		FROM public_holidays
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Description, &h.CreatedBy, &h.UpdatedBy, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
