package attachment

import "time"

// Status of an attachment review. Transitions are one-way:
// pending -> approved or pending -> rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Attachment is a justification document tied to a leave request.
type Attachment struct {
	ID          string
	RequestID   string
	FileName    string
	FilePath    string
	FileType    string
	FileSize    int64
	Status      Status
	Comment     *string
	UploaderID  string
	ValidatorID *string
	ValidatedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
