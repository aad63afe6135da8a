package quota

import (
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/pkg/validator"
)

type AdjustQuotaRequest struct {
	EmployeeID string `json:"employee_id"`
	Category   string `json:"category"`
	NewTotal   *int   `json:"quota_total,omitempty"`
	NewUsed    *int   `json:"quota_used,omitempty"`
	Reason     string `json:"comment"`
	AdjusterID string `json:"-"`
}

func (r *AdjustQuotaRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	}
	if r.NewTotal == nil && r.NewUsed == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "quota_total",
			Message: "at least one of quota_total or quota_used must be provided",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "comment",
			Message: "comment is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LastAdjustment summarizes the most recent adjustment for list views.
type LastAdjustment struct {
	AdjusterName string    `json:"adjuster_name"`
	Date         time.Time `json:"date"`
	Comment      string    `json:"comment"`
}

type QuotaInfo struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name,omitempty"`
	Department     string          `json:"department,omitempty"`
	Category       string          `json:"category"`
	QuotaTotal     int             `json:"quota_total"`
	QuotaUsed      int             `json:"quota_used"`
	QuotaRemaining int             `json:"quota_remaining"`
	UpdatedAt      time.Time       `json:"updated_at"`
	LastAdjustment *LastAdjustment `json:"last_adjustment,omitempty"`
}

type AdjustmentResponse struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	AdjusterName  string    `json:"adjuster_name"`
	PreviousTotal int       `json:"previous_total"`
	NewTotal      int       `json:"new_total"`
	PreviousUsed  int       `json:"previous_used"`
	NewUsed       int       `json:"new_used"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuotaFilter narrows quota list queries.
type QuotaFilter struct {
	Department *string
	Category   *string
}
