package leave

import (
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/pkg/validator"
)

type SubmitRequestRequest struct {
	EmployeeID string `json:"-"`
	Category   string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
	Priority   string `json:"priority,omitempty"`
}

func (r *SubmitRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if r.Priority != "" && !validator.IsInSlice(r.Priority, []string{"urgent", "normal", "low"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of urgent, normal, low",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type TransitionRequest struct {
	RequestID string `json:"request_id"`
	Decision  string `json:"decision"`
	Comment   string `json:"comment"`

	// Optional date override, accepted at the DGPEC and DG stages only.
	NewStartDate *string `json:"new_start_date,omitempty"`
	NewEndDate   *string `json:"new_end_date,omitempty"`
}

func (r *TransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if !validator.IsInSlice(r.Decision, []string{string(DecisionApprove), string(DecisionReject)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be approve or reject",
		})
	}

	if r.NewStartDate != nil {
		if _, ok := validator.IsValidDate(*r.NewStartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "new_start_date",
				Message: "new_start_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}
	if r.NewEndDate != nil {
		if _, ok := validator.IsValidDate(*r.NewEndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "new_end_date",
				Message: "new_end_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}
	if (r.NewStartDate == nil) != (r.NewEndDate == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_start_date",
			Message: "new_start_date and new_end_date must be supplied together",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetPriorityRequest struct {
	RequestID string `json:"request_id"`
	Priority  string `json:"priority"`
}

func (r *SetPriorityRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}
	if !validator.IsInSlice(r.Priority, []string{"urgent", "normal", "low"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of urgent, normal, low",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RequestFilter narrows list queries; all fields optional.
type RequestFilter struct {
	EmployeeID *string
	Category   *string
	Department *string
	Status     *string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// UpdateLeaveRequest is the repository-level patch for a request; nil
// fields are left untouched.
type UpdateLeaveRequest struct {
	ID string

	StartDate *time.Time
	EndDate   *time.Time
	TotalDays *int
	Status    *Status
	Priority  *Priority

	DirectionValidatorID *string
	DirectionComment     *string
	DirectionValidatedAt *time.Time
	DirectionApproved    *bool

	DGPECValidatorID *string
	DGPECComment     *string
	DGPECValidatedAt *time.Time
	DGPECApproved    *bool

	DGValidatorID *string
	DGComment     *string
	DGValidatedAt *time.Time
	DGApproved    *bool

	StageEnteredAt *time.Time
	ReminderCount  *int
	LastReminderAt *time.Time
}

// Response shapes

type EmployeeRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type StageValidationResponse struct {
	Validator   *string    `json:"validator,omitempty"`
	Comment     *string    `json:"comment,omitempty"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	Approved    *bool      `json:"approved,omitempty"`
}

type LeaveRequestResponse struct {
	ID            string      `json:"id"`
	Employee      EmployeeRef `json:"employee"`
	Type          Category    `json:"type"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	TotalDays     int         `json:"total_days"`
	Reason        string      `json:"reason"`
	Status        Status      `json:"status"`
	Priority      Priority    `json:"priority"`
	ReminderCount int         `json:"reminder_count"`

	Direction *StageValidationResponse `json:"direction_validation,omitempty"`
	DGPEC     *StageValidationResponse `json:"dgpec_validation,omitempty"`
	DG        *StageValidationResponse `json:"dg_validation,omitempty"`

	// QuotaWarning is set when a final approval drove the remaining
	// balance below zero and the block policy is off.
	QuotaWarning *string `json:"quota_warning,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func stageResponse(v StageValidation) *StageValidationResponse {
	if v.ValidatedAt == nil {
		return nil
	}
	return &StageValidationResponse{
		Validator:   v.ValidatorName,
		Comment:     v.Comment,
		ValidatedAt: v.ValidatedAt,
		Approved:    v.Approved,
	}
}

// ToResponse converts the entity to its JSON shape.
func (lr LeaveRequest) ToResponse() LeaveRequestResponse {
	return LeaveRequestResponse{
		ID: lr.ID,
		Employee: EmployeeRef{
			ID:         lr.EmployeeID,
			Name:       lr.EmployeeName,
			Department: lr.EmployeeDepartment,
		},
		Type:          lr.Category,
		StartDate:     lr.StartDate.Format("2006-01-02"),
		EndDate:       lr.EndDate.Format("2006-01-02"),
		TotalDays:     lr.TotalDays,
		Reason:        lr.Reason,
		Status:        lr.Status,
		Priority:      lr.Priority,
		ReminderCount: lr.ReminderCount,
		Direction:     stageResponse(lr.Direction),
		DGPEC:         stageResponse(lr.DGPEC),
		DG:            stageResponse(lr.DG),
		CreatedAt:     lr.CreatedAt,
		UpdatedAt:     lr.UpdatedAt,
	}
}

type ListLeaveRequestResponse struct {
	Requests []LeaveRequestResponse `json:"requests"`
	Total    int64                  `json:"total"`
}

type ActionLogResponse struct {
	ID        string     `json:"id"`
	RequestID string     `json:"request_id"`
	Actor     string     `json:"actor"`
	Role      string     `json:"role"`
	Action    ActionKind `json:"action"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
}

type DelayedRequestResponse struct {
	RequestID     string   `json:"id"`
	EmployeeName  string   `json:"employee_name"`
	Type          Category `json:"type"`
	StartDate     string   `json:"start_date"`
	Status        Status   `json:"status"`
	DaysDelayed   int      `json:"days_delayed"`
	ValidatorRole string   `json:"validator_role"`
}

type StatsResponse struct {
	ByStatus   []StatusCount   `json:"by_status"`
	ByCategory []CategoryCount `json:"by_category"`
}

type PerformanceResponse struct {
	Validators []ValidatorStats `json:"validators"`
	Monthly    []MonthlyStats   `json:"monthly"`
}
