package quota

import "errors"

var (
	ErrQuotaNotFound     = errors.New("quota not found")
	ErrMissingReason     = errors.New("a reason is required for a quota adjustment")
	ErrDuplicateDebit    = errors.New("quota already debited for this request")
	ErrInsufficientQuota = errors.New("insufficient leave quota")
)
