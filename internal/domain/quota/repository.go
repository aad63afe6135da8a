package quota

import (
	"context"

	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
)

// QuotaRepository - interface for quotas table
type QuotaRepository interface {
	Create(ctx context.Context, q Quota) (Quota, error)
	GetByEmployeeCategory(ctx context.Context, employeeID string, category leave.Category) (Quota, error)
	// GetByEmployeeCategoryForUpdate locks the quota row for the
	// enclosing transaction.
	GetByEmployeeCategoryForUpdate(ctx context.Context, employeeID string, category leave.Category) (Quota, error)
	UpdateBalances(ctx context.Context, quotaID string, totalDays, usedDays int) error
	List(ctx context.Context, filter QuotaFilter) ([]QuotaInfo, error)
}

// AdjustmentRepository - interface for quota_adjustments table (append-only)
type AdjustmentRepository interface {
	Create(ctx context.Context, a Adjustment) (Adjustment, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Adjustment, error)
}

// DebitRepository - interface for quota_debits table. Create must fail
// with ErrDuplicateDebit when a debit already exists for the request.
type DebitRepository interface {
	Create(ctx context.Context, d Debit) (Debit, error)
}
