package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByIDForUpdate locks the row for the duration of the enclosing
	// transaction so concurrent transitions serialize.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]LeaveRequest, int64, error)
	ListByStatus(ctx context.Context, status Status, filter RequestFilter) ([]LeaveRequest, int64, error)
	Update(ctx context.Context, patch UpdateLeaveRequest) error
	CheckOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	// ListOpenEnteredBefore returns non-terminal requests whose current
	// stage was entered at or before the cutoff. Coarse pre-filter for
	// the reminder sweep; the service refines with business days.
	ListOpenEnteredBefore(ctx context.Context, cutoff time.Time) ([]LeaveRequest, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	// ValidatorStats returns one row per validator per decided stage.
	ValidatorStats(ctx context.Context) ([]ValidatorStats, error)
	// MonthlyStats covers the given number of months up to the current
	// one, oldest first.
	MonthlyStats(ctx context.Context, months int) ([]MonthlyStats, error)
}

// ActionLogRepository - interface for action_logs table (append-only)
type ActionLogRepository interface {
	Create(ctx context.Context, entry ActionLog) (ActionLog, error)
	ListByRequestID(ctx context.Context, requestID string) ([]ActionLog, error)
	ListByRole(ctx context.Context, role string, limit int) ([]ActionLog, error)
}

// ReminderLogRepository - interface for reminder_logs table (append-only)
type ReminderLogRepository interface {
	Create(ctx context.Context, entry ReminderLog) (ReminderLog, error)
	// Exists reports whether a reminder was already logged for this
	// request while it was in the stage entered at stageEnteredAt.
	Exists(ctx context.Context, requestID string, stageEnteredAt time.Time) (bool, error)
}
