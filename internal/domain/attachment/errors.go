package attachment

import "errors"

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrAlreadyDecided     = errors.New("attachment review already decided")
	ErrInvalidStatus      = errors.New("attachment status must be approved or rejected")
)
