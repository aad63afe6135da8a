package response

import (
	"errors"
	"net/http"

	"github.com/gestion-conges/leave-backend-go/internal/domain/attachment"
	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/domain/holiday"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/domain/notification"
	"github.com/gestion-conges/leave-backend-go/internal/domain/quota"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth / employee errors
	case errors.Is(err, employee.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, employee.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave request errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInvalidRange):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, leave.ErrUnknownCategory):
		BadRequest(w, "Unknown leave category", nil)
	case errors.Is(err, leave.ErrMissingComment):
		BadRequest(w, "A comment is required for every decision", nil)
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "An open or approved request already covers these dates")
	case errors.Is(err, leave.ErrAlreadyFinalized):
		Conflict(w, "Leave request is already finalized")
	case errors.Is(err, leave.ErrWrongStage):
		Conflict(w, "Leave request is not at your validation stage")
	case errors.Is(err, leave.ErrAttachmentsPending):
		Conflict(w, "Attachments are still pending review")

	// Quota errors
	case errors.Is(err, quota.ErrQuotaNotFound):
		NotFound(w, "Leave quota not found")
	case errors.Is(err, quota.ErrInsufficientQuota):
		BadRequest(w, "Insufficient leave quota", nil)
	case errors.Is(err, quota.ErrDuplicateDebit):
		Conflict(w, "Quota already debited for this request")
	case errors.Is(err, quota.ErrMissingReason):
		BadRequest(w, "A comment is required for a quota adjustment", nil)

	// Holiday errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrDuplicateDate):
		Conflict(w, "A holiday already exists on this date")

	// Attachment errors
	case errors.Is(err, attachment.ErrAttachmentNotFound):
		NotFound(w, "Attachment not found")
	case errors.Is(err, attachment.ErrAlreadyDecided):
		Conflict(w, "Attachment review already decided")
	case errors.Is(err, attachment.ErrInvalidStatus):
		BadRequest(w, "Attachment status must be approved or rejected", nil)

	// Notification errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrNotRecipient):
		Forbidden(w, "Notification does not belong to this user")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
