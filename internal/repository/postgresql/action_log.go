package postgresql

import (
	"context"

	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
)

type actionLogRepositoryImpl struct {
	db *database.DB
}

func NewActionLogRepository(db *database.DB) leave.ActionLogRepository {
	return &actionLogRepositoryImpl{db: db}
}

func (r *actionLogRepositoryImpl) Create(ctx context.Context, entry leave.ActionLog) (leave.ActionLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO action_logs (
			id, request_id, actor_id, actor_name, role, action, comment, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		entry.RequestID, entry.ActorID, entry.ActorName, entry.Role, entry.Action, entry.Comment,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return leave.ActionLog{}, err
	}

	return entry, nil
}

func (r *actionLogRepositoryImpl) ListByRequestID(ctx context.Context, requestID string) ([]leave.ActionLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, request_id, actor_id, actor_name, role, action, comment, created_at
		FROM action_logs
		WHERE request_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []leave.ActionLog
	for rows.Next() {
		var e leave.ActionLog
		if err := rows.Scan(&e.ID, &e.RequestID, &e.ActorID, &e.ActorName, &e.Role, &e.Action, &e.Comment, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *actionLogRepositoryImpl) ListByRole(ctx context.Context, role string, limit int) ([]leave.ActionLog, error) {
	q := GetQuerier(ctx, r.db)

	if limit == 0 {
		limit = 50
	}

	query := `
		SELECT id, request_id, actor_id, actor_name, role, action, comment, created_at
		FROM action_logs
		WHERE role = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, role, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []leave.ActionLog
	for rows.Next() {
		var e leave.ActionLog
		if err := rows.Scan(&e.ID, &e.RequestID, &e.ActorID, &e.ActorName, &e.Role, &e.Action, &e.Comment, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
