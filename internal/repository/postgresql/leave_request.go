package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.category, lr.start_date, lr.end_date, lr.total_days,
	lr.reason, lr.status, lr.priority,
	lr.direction_validator_id, lr.direction_comment, lr.direction_validated_at, lr.direction_approved,
	lr.dgpec_validator_id, lr.dgpec_comment, lr.dgpec_validated_at, lr.dgpec_approved,
	lr.dg_validator_id, lr.dg_comment, lr.dg_validated_at, lr.dg_approved,
	lr.stage_entered_at, lr.reminder_count, lr.last_reminder_at,
	lr.created_at, lr.updated_at,
	e.full_name, e.department
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLeaveRequest(row rowScanner) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.Category, &lr.StartDate, &lr.EndDate, &lr.TotalDays,
		&lr.Reason, &lr.Status, &lr.Priority,
		&lr.Direction.ValidatorID, &lr.Direction.Comment, &lr.Direction.ValidatedAt, &lr.Direction.Approved,
		&lr.DGPEC.ValidatorID, &lr.DGPEC.Comment, &lr.DGPEC.ValidatedAt, &lr.DGPEC.Approved,
		&lr.DG.ValidatorID, &lr.DG.Comment, &lr.DG.ValidatedAt, &lr.DG.Approved,
		&lr.StageEnteredAt, &lr.ReminderCount, &lr.LastReminderAt,
		&lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName, &lr.EmployeeDepartment,
	)
	return lr, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, category,
			start_date, end_date, total_days,
			reason, status, priority,
			stage_entered_at, reminder_count,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5,
			$6, $7, $8,
			NOW(), 0,
			NOW(), NOW()
		) RETURNING id, stage_entered_at, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.Category,
		request.StartDate, request.EndDate, request.TotalDays,
		request.Reason, request.Status, request.Priority,
	).Scan(&request.ID, &request.StageEnteredAt, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.getByID(ctx, id, false)
}

func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.getByID(ctx, id, true)
}

func (r *leaveRequestRepositoryImpl) getByID(ctx context.Context, id string, forUpdate bool) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1
	`, leaveRequestColumns)
	if forUpdate {
		// Locks the request row only, not the joined employee row.
		query += " FOR UPDATE OF lr"
	}

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	return lr, nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	return r.list(ctx, filter)
}

func (r *leaveRequestRepositoryImpl) ListByStatus(ctx context.Context, status leave.Status, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	s := string(status)
	filter.Status = &s
	return r.list(ctx, filter)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
	`

	whereClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Category != nil && *filter.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.category = $%d", argIdx))
		args = append(args, *filter.Category)
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("e.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	if len(whereClauses) > 0 {
		baseQuery += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := "SELECT COUNT(*) " + baseQuery
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	orderBy := "lr.created_at"
	switch filter.SortBy {
	case "start_date":
		orderBy = "lr.start_date"
	case "status":
		orderBy = "lr.status"
	case "priority":
		orderBy = "lr.priority"
	case "employee_name":
		orderBy = "e.full_name"
	}
	if strings.ToLower(filter.SortOrder) == "asc" {
		orderBy += " ASC"
	} else {
		orderBy += " DESC"
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT $%d OFFSET $%d",
		leaveRequestColumns, baseQuery, orderBy, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, total, nil
}

func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, patch leave.UpdateLeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.StartDate != nil {
		set("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		set("end_date", *patch.EndDate)
	}
	if patch.TotalDays != nil {
		set("total_days", *patch.TotalDays)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Priority != nil {
		set("priority", *patch.Priority)
	}
	if patch.DirectionValidatorID != nil {
		set("direction_validator_id", *patch.DirectionValidatorID)
	}
	if patch.DirectionComment != nil {
		set("direction_comment", *patch.DirectionComment)
	}
	if patch.DirectionValidatedAt != nil {
		set("direction_validated_at", *patch.DirectionValidatedAt)
	}
	if patch.DirectionApproved != nil {
		set("direction_approved", *patch.DirectionApproved)
	}
	if patch.DGPECValidatorID != nil {
		set("dgpec_validator_id", *patch.DGPECValidatorID)
	}
	if patch.DGPECComment != nil {
		set("dgpec_comment", *patch.DGPECComment)
	}
	if patch.DGPECValidatedAt != nil {
		set("dgpec_validated_at", *patch.DGPECValidatedAt)
	}
	if patch.DGPECApproved != nil {
		set("dgpec_approved", *patch.DGPECApproved)
	}
	if patch.DGValidatorID != nil {
		set("dg_validator_id", *patch.DGValidatorID)
	}
	if patch.DGComment != nil {
		set("dg_comment", *patch.DGComment)
	}
	if patch.DGValidatedAt != nil {
		set("dg_validated_at", *patch.DGValidatedAt)
	}
	if patch.DGApproved != nil {
		set("dg_approved", *patch.DGApproved)
	}
	if patch.StageEnteredAt != nil {
		set("stage_entered_at", *patch.StageEnteredAt)
	}
	if patch.ReminderCount != nil {
		set("reminder_count", *patch.ReminderCount)
	}
	if patch.LastReminderAt != nil {
		set("last_reminder_at", *patch.LastReminderAt)
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for leave request update")
	}

	set("updated_at", time.Now())
	args = append(args, patch.ID)

	sql := "UPDATE leave_requests SET " + strings.Join(updates, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrLeaveRequestNotFound
		}
		return fmt.Errorf("failed to update leave request with id %s: %w", patch.ID, err)
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) CheckOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			AND status IN ('pending', 'validated_by_direction', 'validated_by_dgpec', 'validated_by_dg')
			AND start_date <= $3 AND end_date >= $2
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, startDate, endDate).Scan(&exists)

	return exists, err
}

func (r *leaveRequestRepositoryImpl) ListOpenEnteredBefore(ctx context.Context, cutoff time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE lr.status IN ('pending', 'validated_by_direction', 'validated_by_dgpec')
		AND lr.stage_entered_at <= $1
		ORDER BY lr.stage_entered_at ASC
	`, leaveRequestColumns)

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

func (r *leaveRequestRepositoryImpl) CountByStatus(ctx context.Context) ([]leave.StatusCount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*)
		FROM leave_requests
		GROUP BY status
		ORDER BY status
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []leave.StatusCount
	for rows.Next() {
		var c leave.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *leaveRequestRepositoryImpl) CountByCategory(ctx context.Context) ([]leave.CategoryCount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT category, COUNT(*), COALESCE(SUM(total_days), 0)
		FROM leave_requests
		GROUP BY category
		ORDER BY category
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []leave.CategoryCount
	for rows.Next() {
		var c leave.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count, &c.TotalDays); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *leaveRequestRepositoryImpl) ValidatorStats(ctx context.Context) ([]leave.ValidatorStats, error) {
	q := GetQuerier(ctx, r.db)

	// Processing time runs from entry into the stage: creation for
	// direction, the previous stage's decision for DGPEC and DG.
	query := `
		SELECT * FROM (
			SELECT lr.direction_validator_id AS validator_id, e.full_name, 'direction' AS role,
				COUNT(*) FILTER (WHERE lr.direction_approved) AS approved,
				COUNT(*) FILTER (WHERE NOT lr.direction_approved) AS rejected,
				COALESCE(AVG(EXTRACT(EPOCH FROM (lr.direction_validated_at - lr.created_at)) / 3600), 0) AS avg_hours
			FROM leave_requests lr
			JOIN employees e ON e.id = lr.direction_validator_id
			WHERE lr.direction_validated_at IS NOT NULL
			GROUP BY lr.direction_validator_id, e.full_name
			UNION ALL
			SELECT lr.dgpec_validator_id, e.full_name, 'dgpec',
				COUNT(*) FILTER (WHERE lr.dgpec_approved),
				COUNT(*) FILTER (WHERE NOT lr.dgpec_approved),
				COALESCE(AVG(EXTRACT(EPOCH FROM (lr.dgpec_validated_at - lr.direction_validated_at)) / 3600), 0)
			FROM leave_requests lr
			JOIN employees e ON e.id = lr.dgpec_validator_id
			WHERE lr.dgpec_validated_at IS NOT NULL
			GROUP BY lr.dgpec_validator_id, e.full_name
			UNION ALL
			SELECT lr.dg_validator_id, e.full_name, 'dg',
				COUNT(*) FILTER (WHERE lr.dg_approved),
				COUNT(*) FILTER (WHERE NOT lr.dg_approved),
				COALESCE(AVG(EXTRACT(EPOCH FROM (lr.dg_validated_at - lr.dgpec_validated_at)) / 3600), 0)
			FROM leave_requests lr
			JOIN employees e ON e.id = lr.dg_validator_id
			WHERE lr.dg_validated_at IS NOT NULL
			GROUP BY lr.dg_validator_id, e.full_name
		) stats
		ORDER BY role, full_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []leave.ValidatorStats
	for rows.Next() {
		var s leave.ValidatorStats
		if err := rows.Scan(&s.ValidatorID, &s.ValidatorName, &s.Role, &s.Approved, &s.Rejected, &s.AvgHours); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *leaveRequestRepositoryImpl) MonthlyStats(ctx context.Context, months int) ([]leave.MonthlyStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'validated_by_dg'),
			COUNT(*) FILTER (WHERE status IN ('rejected_by_direction', 'rejected_by_dgpec', 'rejected_by_dg'))
		FROM leave_requests
		WHERE created_at >= date_trunc('month', NOW()) - make_interval(months => $1 - 1)
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := q.Query(ctx, query, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []leave.MonthlyStats
	for rows.Next() {
		var s leave.MonthlyStats
		if err := rows.Scan(&s.Month, &s.Submitted, &s.Approved, &s.Rejected); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
