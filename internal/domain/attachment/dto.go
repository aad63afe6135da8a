package attachment

import (
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/pkg/validator"
)

type SetStatusRequest struct {
	AttachmentID string `json:"attachment_id"`
	Status       string `json:"status"`
	Comment      string `json:"comment,omitempty"`
	ValidatorID  string `json:"-"`
}

func (r *SetStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttachmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attachment_id",
			Message: "attachment_id is required",
		})
	}
	if !validator.IsInSlice(r.Status, []string{string(StatusApproved), string(StatusRejected)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be approved or rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttachmentResponse struct {
	ID          string     `json:"id"`
	RequestID   string     `json:"request_id"`
	FileName    string     `json:"file_name"`
	FileType    string     `json:"file_type"`
	FileSize    int64      `json:"file_size"`
	Status      Status     `json:"status"`
	Comment     *string    `json:"comments,omitempty"`
	URL         string     `json:"url,omitempty"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (a Attachment) ToResponse() AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		RequestID:   a.RequestID,
		FileName:    a.FileName,
		FileType:    a.FileType,
		FileSize:    a.FileSize,
		Status:      a.Status,
		Comment:     a.Comment,
		ValidatedAt: a.ValidatedAt,
		CreatedAt:   a.CreatedAt,
	}
}
