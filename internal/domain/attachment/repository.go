package attachment

import "context"

// AttachmentRepository - interface for attachments table
type AttachmentRepository interface {
	Create(ctx context.Context, a Attachment) (Attachment, error)
	GetByID(ctx context.Context, id string) (Attachment, error)
	ListByRequestID(ctx context.Context, requestID string) ([]Attachment, error)
	UpdateStatus(ctx context.Context, id string, status Status, comment *string, validatorID string) error
	CountPendingByRequestID(ctx context.Context, requestID string) (int, error)
	Delete(ctx context.Context, id string) error
}
