package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("notification does not belong to this user")
)
