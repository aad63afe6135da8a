package postgresql

import (
	"context"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
)

type reminderLogRepositoryImpl struct {
	db *database.DB
}

func NewReminderLogRepository(db *database.DB) leave.ReminderLogRepository {
	return &reminderLogRepositoryImpl{db: db}
}

func (r *reminderLogRepositoryImpl) Create(ctx context.Context, entry leave.ReminderLog) (leave.ReminderLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reminder_logs (
			id, request_id, sent_to, stage_entered_at, message, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		entry.RequestID, entry.SentTo, entry.StageEnteredAt, entry.Message,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return leave.ReminderLog{}, err
	}

	return entry, nil
}

func (r *reminderLogRepositoryImpl) Exists(ctx context.Context, requestID string, stageEnteredAt time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM reminder_logs
			WHERE request_id = $1 AND stage_entered_at = $2
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, requestID, stageEnteredAt).Scan(&exists)

	return exists, err
}
