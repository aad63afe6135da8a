package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/domain/quota"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type quotaRepositoryImpl struct {
	db *database.DB
}

func NewQuotaRepository(db *database.DB) quota.QuotaRepository {
	return &quotaRepositoryImpl{db: db}
}

func (r *quotaRepositoryImpl) Create(ctx context.Context, q quota.Quota) (quota.Quota, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO quotas (
			id, employee_id, category, total_days, used_days, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, NOW()
		) RETURNING id, updated_at
	`

	err := querier.QueryRow(ctx, query, q.EmployeeID, q.Category, q.TotalDays, q.UsedDays).
		Scan(&q.ID, &q.UpdatedAt)
	if err != nil {
		return quota.Quota{}, err
	}

	return q, nil
}

func (r *quotaRepositoryImpl) GetByEmployeeCategory(ctx context.Context, employeeID string, category leave.Category) (quota.Quota, error) {
	return r.getByEmployeeCategory(ctx, employeeID, category, false)
}

func (r *quotaRepositoryImpl) GetByEmployeeCategoryForUpdate(ctx context.Context, employeeID string, category leave.Category) (quota.Quota, error) {
	return r.getByEmployeeCategory(ctx, employeeID, category, true)
}

func (r *quotaRepositoryImpl) getByEmployeeCategory(ctx context.Context, employeeID string, category leave.Category, forUpdate bool) (quota.Quota, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, category, total_days, used_days, updated_at
		FROM quotas
		WHERE employee_id = $1 AND category = $2
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var q quota.Quota
	err := querier.QueryRow(ctx, query, employeeID, category).
		Scan(&q.ID, &q.EmployeeID, &q.Category, &q.TotalDays, &q.UsedDays, &q.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return quota.Quota{}, quota.ErrQuotaNotFound
		}
		return quota.Quota{}, err
	}

	return q, nil
}

func (r *quotaRepositoryImpl) UpdateBalances(ctx context.Context, quotaID string, totalDays, usedDays int) error {
	querier := GetQuerier(ctx, r.db)

	query := `
		UPDATE quotas
		SET total_days = $1, used_days = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id
	`

	var updatedID string
	if err := querier.QueryRow(ctx, query, totalDays, usedDays, quotaID).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return quota.ErrQuotaNotFound
		}
		return fmt.Errorf("failed to update quota %s: %w", quotaID, err)
	}
	return nil
}

func (r *quotaRepositoryImpl) List(ctx context.Context, filter quota.QuotaFilter) ([]quota.QuotaInfo, error) {
	querier := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM quotas q
		JOIN employees e ON q.employee_id = e.id
	`

	whereClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	if filter.Department != nil && *filter.Department != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("e.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Category != nil && *filter.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("q.category = $%d", argIdx))
		args = append(args, *filter.Category)
		argIdx++
	}

	if len(whereClauses) > 0 {
		baseQuery += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// LATERAL join pulls the most recent adjustment per quota row.
	query := `
		SELECT q.id, q.employee_id, e.full_name, e.department, q.category,
			   q.total_days, q.used_days, q.updated_at,
			   adj.adjuster_name, adj.created_at, adj.reason
	` + baseQuery + `
		LEFT JOIN LATERAL (
			SELECT a.reason, a.created_at, adj_e.full_name AS adjuster_name
			FROM quota_adjustments a
			JOIN employees adj_e ON a.adjuster_id = adj_e.id
			WHERE a.quota_id = q.id
			ORDER BY a.created_at DESC
			LIMIT 1
		) adj ON TRUE
		ORDER BY e.full_name ASC, q.category ASC
	`

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []quota.QuotaInfo
	for rows.Next() {
		var info quota.QuotaInfo
		var adjName, adjComment *string
		var adjDate *time.Time

		if err := rows.Scan(
			&info.ID, &info.EmployeeID, &info.EmployeeName, &info.Department, &info.Category,
			&info.QuotaTotal, &info.QuotaUsed, &info.UpdatedAt,
			&adjName, &adjDate, &adjComment,
		); err != nil {
			return nil, err
		}

		info.QuotaRemaining = info.QuotaTotal - info.QuotaUsed
		if adjName != nil && adjDate != nil && adjComment != nil {
			info.LastAdjustment = &quota.LastAdjustment{
				AdjusterName: *adjName,
				Date:         *adjDate,
				Comment:      *adjComment,
			}
		}

		infos = append(infos, info)
	}
	return infos, rows.Err()
}

type adjustmentRepositoryImpl struct {
	db *database.DB
}

func NewAdjustmentRepository(db *database.DB) quota.AdjustmentRepository {
	return &adjustmentRepositoryImpl{db: db}
}

func (r *adjustmentRepositoryImpl) Create(ctx context.Context, a quota.Adjustment) (quota.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO quota_adjustments (
			id, quota_id, previous_total, new_total, previous_used, new_used,
			reason, adjuster_id, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		a.QuotaID, a.PreviousTotal, a.NewTotal, a.PreviousUsed, a.NewUsed,
		a.Reason, a.AdjusterID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return quota.Adjustment{}, err
	}

	return a, nil
}

func (r *adjustmentRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]quota.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.quota_id, a.previous_total, a.new_total, a.previous_used, a.new_used,
			   a.reason, a.adjuster_id, adj_e.full_name, a.created_at
		FROM quota_adjustments a
		JOIN quotas qt ON a.quota_id = qt.id
		JOIN employees adj_e ON a.adjuster_id = adj_e.id
		WHERE qt.employee_id = $1
		ORDER BY a.created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []quota.Adjustment
	for rows.Next() {
		var a quota.Adjustment
		if err := rows.Scan(
			&a.ID, &a.QuotaID, &a.PreviousTotal, &a.NewTotal, &a.PreviousUsed, &a.NewUsed,
			&a.Reason, &a.AdjusterID, &a.AdjusterName, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

type debitRepositoryImpl struct {
	db *database.DB
}

func NewDebitRepository(db *database.DB) quota.DebitRepository {
	return &debitRepositoryImpl{db: db}
}

func (r *debitRepositoryImpl) Create(ctx context.Context, d quota.Debit) (quota.Debit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO quota_debits (
			id, quota_id, request_id, days, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, d.QuotaID, d.RequestID, d.Days).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return quota.Debit{}, quota.ErrDuplicateDebit
		}
		return quota.Debit{}, err
	}

	return d, nil
}
