package notification

import "context"

// NotificationRepository - interface for notifications table
type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	GetByID(ctx context.Context, id string) (Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
}
