package notification

import "time"

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeRequestSubmitted   NotificationType = "request_submitted"
	TypeRequestValidated   NotificationType = "request_validated"
	TypeRequestRejected    NotificationType = "request_rejected"
	TypeAwaitingValidation NotificationType = "awaiting_validation"
	TypeReminder           NotificationType = "reminder"
	TypeQuotaAdjusted      NotificationType = "quota_adjusted"
)

// Notification is a persistent in-app notification row. Append-only
// except for the read flag.
type Notification struct {
	ID          string
	RecipientID string
	RequestID   *string
	Type        NotificationType
	Title       string
	Message     string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
