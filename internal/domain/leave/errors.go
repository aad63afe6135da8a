package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrInvalidRange         = errors.New("start date is after end date")
	ErrMissingComment       = errors.New("a comment is required for this decision")
	ErrAlreadyFinalized     = errors.New("leave request already finalized")
	ErrWrongStage           = errors.New("request is not awaiting this validator role")
	ErrOverlappingLeave     = errors.New("an overlapping leave request already exists")
	ErrAttachmentsPending   = errors.New("attachments are still awaiting review")
	ErrUnknownCategory      = errors.New("unknown leave category")
)
