package attachment

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/attachment"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// SignedURLTTL bounds how long a generated attachment link stays
// valid.
const SignedURLTTL = 3600 * time.Second

// MaxFileSize caps uploads at 10 MiB.
const MaxFileSize = 10 << 20

var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

type AttachmentService struct {
	attachment.AttachmentRepository
	leave.LeaveRequestRepository
	storage storage.FileStorage
}

func NewAttachmentService(
	attachmentRepository attachment.AttachmentRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	fileStorage storage.FileStorage,
) *AttachmentService {
	return &AttachmentService{
		AttachmentRepository:   attachmentRepository,
		LeaveRequestRepository: leaveRequestRepository,
		storage:                fileStorage,
	}
}

// Upload stores a justification document for a request. The file
// lands in storage first; the metadata row is only written once the
// bytes are safely on disk.
func (s *AttachmentService) Upload(ctx context.Context, requestID, uploaderID, fileName string, fileSize int64, file io.Reader) (attachment.AttachmentResponse, error) {
	if fileSize > MaxFileSize {
		return attachment.AttachmentResponse{}, fmt.Errorf("file exceeds maximum size of %d bytes", int64(MaxFileSize))
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return attachment.AttachmentResponse{}, fmt.Errorf("file type %q is not allowed", ext)
	}

	lr, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return attachment.AttachmentResponse{}, err
	}
	if lr.EmployeeID != uploaderID {
		return attachment.AttachmentResponse{}, leave.ErrLeaveRequestNotFound
	}

	path := fmt.Sprintf("attachments/%s/%s%s", requestID, uuid.NewString(), ext)
	storedPath, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return attachment.AttachmentResponse{}, fmt.Errorf("failed to store attachment: %w", err)
	}

	created, err := s.AttachmentRepository.Create(ctx, attachment.Attachment{
		RequestID:  requestID,
		FileName:   fileName,
		FilePath:   storedPath,
		FileType:   contentType,
		FileSize:   fileSize,
		Status:     attachment.StatusPending,
		UploaderID: uploaderID,
	})
	if err != nil {
		// Orphan the stored file rather than lose the upload silently.
		_ = s.storage.Delete(ctx, storedPath)
		return attachment.AttachmentResponse{}, fmt.Errorf("failed to record attachment: %w", err)
	}

	return created.ToResponse(), nil
}

// SetStatus decides an attachment review. The transition is one-way:
// once approved or rejected, the review never reopens.
func (s *AttachmentService) SetStatus(ctx context.Context, req attachment.SetStatusRequest) (attachment.AttachmentResponse, error) {
	if err := req.Validate(); err != nil {
		return attachment.AttachmentResponse{}, err
	}

	a, err := s.AttachmentRepository.GetByID(ctx, req.AttachmentID)
	if err != nil {
		return attachment.AttachmentResponse{}, err
	}

	if a.Status != attachment.StatusPending {
		return attachment.AttachmentResponse{}, attachment.ErrAlreadyDecided
	}

	var comment *string
	if req.Comment != "" {
		comment = &req.Comment
	}

	if err := s.AttachmentRepository.UpdateStatus(ctx, a.ID, attachment.Status(req.Status), comment, req.ValidatorID); err != nil {
		return attachment.AttachmentResponse{}, err
	}

	now := time.Now()
	a.Status = attachment.Status(req.Status)
	a.Comment = comment
	a.ValidatorID = &req.ValidatorID
	a.ValidatedAt = &now

	return a.ToResponse(), nil
}

// ListForRequest returns the request's attachments with fresh signed
// URLs.
func (s *AttachmentService) ListForRequest(ctx context.Context, requestID string) ([]attachment.AttachmentResponse, error) {
	attachments, err := s.AttachmentRepository.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	responses := make([]attachment.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		resp := a.ToResponse()
		url, err := s.storage.GetURL(ctx, a.FilePath, SignedURLTTL)
		if err == nil {
			resp.URL = url
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// Download streams the stored file.
func (s *AttachmentService) Download(ctx context.Context, id string) (io.ReadCloser, attachment.Attachment, error) {
	a, err := s.AttachmentRepository.GetByID(ctx, id)
	if err != nil {
		return nil, attachment.Attachment{}, err
	}

	reader, err := s.storage.Download(ctx, a.FilePath)
	if err != nil {
		return nil, attachment.Attachment{}, fmt.Errorf("failed to open attachment: %w", err)
	}

	return reader, a, nil
}

// Delete removes an attachment that is still pending review. The
// uploader is the only one who can remove it.
func (s *AttachmentService) Delete(ctx context.Context, id, uploaderID string) error {
	a, err := s.AttachmentRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.UploaderID != uploaderID {
		return attachment.ErrAttachmentNotFound
	}
	if a.Status != attachment.StatusPending {
		return attachment.ErrAlreadyDecided
	}

	if err := s.AttachmentRepository.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, a.FilePath); err != nil {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}
	return nil
}
