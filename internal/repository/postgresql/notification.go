package postgresql

import (
	"context"

	"github.com/gestion-conges/leave-backend-go/internal/domain/notification"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (
			id, recipient_id, request_id, type, title, message, is_read, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, FALSE, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		n.RecipientID, n.RequestID, n.Type, n.Title, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return notification.Notification{}, err
	}

	return n, nil
}

func (r *notificationRepositoryImpl) GetByID(ctx context.Context, id string) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, recipient_id, request_id, type, title, message, is_read, read_at, created_at
		FROM notifications
		WHERE id = $1
	`

	var n notification.Notification
	err := q.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.RecipientID, &n.RequestID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.ReadAt, &n.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return notification.Notification{}, notification.ErrNotificationNotFound
		}
		return notification.Notification{}, err
	}

	return n, nil
}

func (r *notificationRepositoryImpl) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	if limit == 0 {
		limit = 50
	}

	query := `
		SELECT id, recipient_id, request_id, type, title, message, is_read, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1
	`
	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += `
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.RequestID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, recipientID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE recipient_id = $1 AND is_read = FALSE
	`

	var count int
	err := q.QueryRow(ctx, query, recipientID).Scan(&count)

	return count, err
}

func (r *notificationRepositoryImpl) MarkAsRead(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return notification.ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (r *notificationRepositoryImpl) MarkAllAsRead(ctx context.Context, recipientID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE recipient_id = $1 AND is_read = FALSE
	`

	_, err := q.Exec(ctx, query, recipientID)
	return err
}
