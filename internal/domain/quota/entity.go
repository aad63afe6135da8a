package quota

import (
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
)

// Quota is the per-employee, per-category leave allotment. Remaining
// is derived, never stored.
type Quota struct {
	ID         string
	EmployeeID string
	Category   leave.Category
	TotalDays  int
	UsedDays   int
	UpdatedAt  time.Time
}

// Remaining returns the derived balance. It may go negative through an
// administrative adjustment or a final approval under the warn policy.
func (q Quota) Remaining() int {
	return q.TotalDays - q.UsedDays
}

// Adjustment is an append-only audit row; every out-of-flow balance
// mutation is paired with exactly one of these in the same transaction.
type Adjustment struct {
	ID            string
	QuotaID       string
	PreviousTotal int
	NewTotal      int
	PreviousUsed  int
	NewUsed       int
	Reason        string
	AdjusterID    string
	AdjusterName  string
	CreatedAt     time.Time
}

// Debit records a quota debit committed by a final approval. RequestID
// is unique, which is what makes the debit idempotent per request.
type Debit struct {
	ID        string
	QuotaID   string
	RequestID string
	Days      int
	CreatedAt time.Time
}
