package leave

import (
	"time"
)

// Status represents the position of a request in the approval chain.
// A request moves pending -> direction -> dgpec -> dg; every rejected
// status and validated_by_dg are terminal.
type Status string

const (
	StatusPending              Status = "pending"
	StatusValidatedByDirection Status = "validated_by_direction"
	StatusRejectedByDirection  Status = "rejected_by_direction"
	StatusValidatedByDGPEC     Status = "validated_by_dgpec"
	StatusRejectedByDGPEC      Status = "rejected_by_dgpec"
	StatusValidatedByDG        Status = "validated_by_dg"
	StatusRejectedByDG         Status = "rejected_by_dg"
)

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejectedByDirection, StatusRejectedByDGPEC, StatusRejectedByDG, StatusValidatedByDG:
		return true
	}
	return false
}

// Category is the leave category a request draws its quota from.
type Category string

const (
	CategoryAnnual      Category = "annual"
	CategorySick        Category = "sick"
	CategoryBereavement Category = "bereavement"
	CategoryMaternity   Category = "maternity"
	CategorySpecial     Category = "special"
)

// AllCategories returns every known leave category.
func AllCategories() []Category {
	return []Category{
		CategoryAnnual,
		CategorySick,
		CategoryBereavement,
		CategoryMaternity,
		CategorySpecial,
	}
}

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// StageValidation is the decision record of one approval stage.
type StageValidation struct {
	ValidatorID   *string
	ValidatorName *string
	Comment       *string
	ValidatedAt   *time.Time
	Approved      *bool
}

// LeaveRequest entity
type LeaveRequest struct {
	ID string

	EmployeeID         string
	EmployeeName       string
	EmployeeDepartment string

	Category  Category
	StartDate time.Time
	EndDate   time.Time

	// TotalDays is the number of days charged against the quota: the
	// working days in [StartDate, EndDate], weekends and public
	// holidays excluded. Recomputed through the calculator on every
	// date change, never set by a client.
	TotalDays int

	Reason   string
	Status   Status
	Priority Priority

	Direction StageValidation
	DGPEC     StageValidation
	DG        StageValidation

	// StageEnteredAt is reset on every transition; the reminder sweep
	// measures time-in-stage from it.
	StageEnteredAt time.Time
	ReminderCount  int
	LastReminderAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActionKind classifies action log entries.
type ActionKind string

const (
	ActionSubmission   ActionKind = "submission"
	ActionValidation   ActionKind = "validation"
	ActionRejection    ActionKind = "rejection"
	ActionModification ActionKind = "modification"
)

// ActionLog is an append-only audit entry attached to a request.
type ActionLog struct {
	ID        string
	RequestID string
	ActorID   string
	ActorName string
	Role      string
	Action    ActionKind
	Comment   string
	CreatedAt time.Time
}

// ReminderLog records a single reminder sent for a stalled request.
// StageEnteredAt ties the reminder to the stage the request was in
// when it was sent, which keeps overlapping sweeps idempotent.
type ReminderLog struct {
	ID             string
	RequestID      string
	SentTo         string
	StageEnteredAt time.Time
	Message        string
	CreatedAt      time.Time
}

// DelayedRequest is a row returned by the delayed-request sweep.
type DelayedRequest struct {
	RequestID      string
	EmployeeName   string
	EmployeeEmail  string
	Category       Category
	StartDate      time.Time
	Status         Status
	DaysDelayed    int
	ValidatorRole  string
	StageEnteredAt time.Time
}

// StatusCount is a per-status aggregate for the dashboards.
type StatusCount struct {
	Status Status
	Count  int64
}

// CategoryCount is a per-category aggregate for the dashboards.
type CategoryCount struct {
	Category  Category
	Count     int64
	TotalDays int64
}

// ValidatorStats aggregates one validator's decisions at one stage.
// AvgHours measures entry into the stage to the decision.
type ValidatorStats struct {
	ValidatorID   string
	ValidatorName string
	Role          string
	Approved      int64
	Rejected      int64
	AvgHours      float64
}

// MonthlyStats groups request outcomes by submission month.
type MonthlyStats struct {
	Month     string
	Submitted int64
	Approved  int64
	Rejected  int64
}
