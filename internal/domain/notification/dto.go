package notification

import "time"

type CreateNotificationRequest struct {
	RecipientID string
	RequestID   *string
	Type        NotificationType
	Title       string
	Message     string
}

type NotificationResponse struct {
	ID        string           `json:"id"`
	RequestID *string          `json:"request_id,omitempty"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func (n Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		RequestID: n.RequestID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

type ListNotificationResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}
