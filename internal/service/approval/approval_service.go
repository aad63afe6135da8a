// Package approval implements the three-stage validation chain a
// leave request travels: direction, then DGPEC, then DG. Each stage
// decision is atomic with its audit entry, and the final approval is
// atomic with the quota debit.
package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/attachment"
	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
	"github.com/gestion-conges/leave-backend-go/internal/service/workingdays"
)

// Calculator breaks a date range down into chargeable working days.
type Calculator interface {
	Calculate(ctx context.Context, start, end time.Time) (workingdays.Calculation, error)
}

// QuotaDebiter charges days against a quota inside the caller's
// transaction.
type QuotaDebiter interface {
	Debit(ctx context.Context, employeeID string, category leave.Category, requestID string, days int, blockNegative bool) (*string, error)
}

// Notifier dispatches post-commit notifications.
type Notifier interface {
	NotifySubmission(ctx context.Context, req leave.LeaveRequest)
	NotifyDecision(ctx context.Context, req leave.LeaveRequest, stage string, approved bool, comment string)
}

// Policy carries the two configurable behaviors of the chain.
type Policy struct {
	// BlockNegativeQuota makes a final approval fail when the balance
	// would go negative instead of approving with a warning.
	BlockNegativeQuota bool
	// RequireAttachmentReview makes a final approval fail while any
	// attachment review is still pending.
	RequireAttachmentReview bool
}

type ApprovalService struct {
	txm database.TxManager
	leave.LeaveRequestRepository
	leave.ActionLogRepository
	attachment.AttachmentRepository
	calculator Calculator
	quotas     QuotaDebiter
	notifier   Notifier
	policy     Policy
}

func NewApprovalService(
	txm database.TxManager,
	leaveRequestRepository leave.LeaveRequestRepository,
	actionLogRepository leave.ActionLogRepository,
	attachmentRepository attachment.AttachmentRepository,
	calculator Calculator,
	quotas QuotaDebiter,
	notifier Notifier,
	policy Policy,
) *ApprovalService {
	return &ApprovalService{
		txm:                    txm,
		LeaveRequestRepository: leaveRequestRepository,
		ActionLogRepository:    actionLogRepository,
		AttachmentRepository:   attachmentRepository,
		calculator:             calculator,
		quotas:                 quotas,
		notifier:               notifier,
		policy:                 policy,
	}
}

// stageFor returns the status a request must be in for the role to
// act on it, plus the statuses its decision produces.
func stageFor(role employee.Role) (current leave.Status, approved, rejected leave.Status, ok bool) {
	switch role {
	case employee.RoleDirection:
		return leave.StatusPending, leave.StatusValidatedByDirection, leave.StatusRejectedByDirection, true
	case employee.RoleDGPEC:
		return leave.StatusValidatedByDirection, leave.StatusValidatedByDGPEC, leave.StatusRejectedByDGPEC, true
	case employee.RoleDG:
		return leave.StatusValidatedByDGPEC, leave.StatusValidatedByDG, leave.StatusRejectedByDG, true
	}
	return "", "", "", false
}

// Submit creates a new request in the pending stage. The request row
// and its submission audit entry commit together.
func (s *ApprovalService) Submit(ctx context.Context, emp employee.Employee, req leave.SubmitRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	category := leave.Category(strings.ToLower(req.Category))
	if !isKnownCategory(category) {
		return leave.LeaveRequestResponse{}, leave.ErrUnknownCategory
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}
	if endDate.Before(startDate) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidRange
	}

	hasOverlap, err := s.LeaveRequestRepository.CheckOverlapping(ctx, emp.ID, startDate, endDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if hasOverlap {
		return leave.LeaveRequestResponse{}, leave.ErrOverlappingLeave
	}

	calc, err := s.calculator.Calculate(ctx, startDate, endDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	priority := leave.PriorityNormal
	if req.Priority != "" {
		priority = leave.Priority(req.Priority)
	}

	var created leave.LeaveRequest
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
			EmployeeID: emp.ID,
			Category:   category,
			StartDate:  startDate,
			EndDate:    endDate,
			TotalDays:  calc.WorkingDays,
			Reason:     req.Reason,
			Status:     leave.StatusPending,
			Priority:   priority,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		_, err = s.ActionLogRepository.Create(ctx, leave.ActionLog{
			RequestID: created.ID,
			ActorID:   emp.ID,
			ActorName: emp.Name,
			Role:      string(emp.Role),
			Action:    leave.ActionSubmission,
			Comment:   req.Reason,
		})
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created.EmployeeName = emp.Name
	created.EmployeeDepartment = emp.Department

	s.notifier.NotifySubmission(ctx, created)

	return created.ToResponse(), nil
}

// Transition applies one validator's decision. The request row is
// locked for the whole operation, so two validators racing on the
// same request serialize and the loser gets ErrWrongStage or
// ErrAlreadyFinalized.
func (s *ApprovalService) Transition(ctx context.Context, actor employee.Employee, req leave.TransitionRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	expectedStatus, approvedStatus, rejectedStatus, ok := stageFor(actor.Role)
	if !ok {
		return leave.LeaveRequestResponse{}, leave.ErrWrongStage
	}

	approve := req.Decision == string(leave.DecisionApprove)
	// Every decision carries a comment, approvals included.
	if strings.TrimSpace(req.Comment) == "" {
		return leave.LeaveRequestResponse{}, leave.ErrMissingComment
	}

	overrideDates := req.NewStartDate != nil && req.NewEndDate != nil
	if overrideDates && actor.Role == employee.RoleDirection {
		// Only the later stages may adjust dates.
		return leave.LeaveRequestResponse{}, leave.ErrWrongStage
	}

	var (
		lr      leave.LeaveRequest
		warning *string
	)
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		lr, err = s.LeaveRequestRepository.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}

		if lr.Status.IsTerminal() {
			return leave.ErrAlreadyFinalized
		}
		if lr.Status != expectedStatus {
			return leave.ErrWrongStage
		}

		now := time.Now()
		newStatus := rejectedStatus
		if approve {
			newStatus = approvedStatus
		}

		reminderReset := 0
		patch := leave.UpdateLeaveRequest{
			ID:             lr.ID,
			Status:         &newStatus,
			StageEnteredAt: &now,
			ReminderCount:  &reminderReset,
		}
		applyStageFields(&patch, actor, req.Comment, now, approve)

		if overrideDates && approve {
			newStart, err := time.Parse("2006-01-02", *req.NewStartDate)
			if err != nil {
				return fmt.Errorf("failed to parse new start date: %w", err)
			}
			newEnd, err := time.Parse("2006-01-02", *req.NewEndDate)
			if err != nil {
				return fmt.Errorf("failed to parse new end date: %w", err)
			}

			newCalc, err := s.calculator.Calculate(ctx, newStart, newEnd)
			if err != nil {
				return err
			}
			newTotal := newCalc.WorkingDays

			patch.StartDate = &newStart
			patch.EndDate = &newEnd
			patch.TotalDays = &newTotal

			lr.StartDate = newStart
			lr.EndDate = newEnd
			lr.TotalDays = newTotal

			if _, err := s.ActionLogRepository.Create(ctx, leave.ActionLog{
				RequestID: lr.ID,
				ActorID:   actor.ID,
				ActorName: actor.Name,
				Role:      string(actor.Role),
				Action:    leave.ActionModification,
				Comment:   fmt.Sprintf("dates modifiées : %s au %s", *req.NewStartDate, *req.NewEndDate),
			}); err != nil {
				return err
			}
		}

		if approve && newStatus == leave.StatusValidatedByDG {
			if s.policy.RequireAttachmentReview {
				pending, err := s.AttachmentRepository.CountPendingByRequestID(ctx, lr.ID)
				if err != nil {
					return fmt.Errorf("failed to count pending attachments: %w", err)
				}
				if pending > 0 {
					return leave.ErrAttachmentsPending
				}
			}

			warning, err = s.quotas.Debit(ctx, lr.EmployeeID, lr.Category, lr.ID, lr.TotalDays, s.policy.BlockNegativeQuota)
			if err != nil {
				return err
			}
		}

		if err := s.LeaveRequestRepository.Update(ctx, patch); err != nil {
			return err
		}

		action := leave.ActionRejection
		if approve {
			action = leave.ActionValidation
		}
		_, err = s.ActionLogRepository.Create(ctx, leave.ActionLog{
			RequestID: lr.ID,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Role:      string(actor.Role),
			Action:    action,
			Comment:   req.Comment,
		})
		if err != nil {
			return err
		}

		lr.Status = newStatus
		lr.StageEnteredAt = now
		lr.ReminderCount = 0
		setStageOnEntity(&lr, actor, req.Comment, now, approve)

		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.notifier.NotifyDecision(ctx, lr, string(actor.Role), approve, req.Comment)

	response := lr.ToResponse()
	response.QuotaWarning = warning
	return response, nil
}

func applyStageFields(patch *leave.UpdateLeaveRequest, actor employee.Employee, comment string, at time.Time, approved bool) {
	switch actor.Role {
	case employee.RoleDirection:
		patch.DirectionValidatorID = &actor.ID
		patch.DirectionComment = &comment
		patch.DirectionValidatedAt = &at
		patch.DirectionApproved = &approved
	case employee.RoleDGPEC:
		patch.DGPECValidatorID = &actor.ID
		patch.DGPECComment = &comment
		patch.DGPECValidatedAt = &at
		patch.DGPECApproved = &approved
	case employee.RoleDG:
		patch.DGValidatorID = &actor.ID
		patch.DGComment = &comment
		patch.DGValidatedAt = &at
		patch.DGApproved = &approved
	}
}

func setStageOnEntity(lr *leave.LeaveRequest, actor employee.Employee, comment string, at time.Time, approved bool) {
	v := leave.StageValidation{
		ValidatorID:   &actor.ID,
		ValidatorName: &actor.Name,
		Comment:       &comment,
		ValidatedAt:   &at,
		Approved:      &approved,
	}
	switch actor.Role {
	case employee.RoleDirection:
		lr.Direction = v
	case employee.RoleDGPEC:
		lr.DGPEC = v
	case employee.RoleDG:
		lr.DG = v
	}
}

func isKnownCategory(c leave.Category) bool {
	for _, known := range leave.AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Get returns one request. An employee only sees their own.
func (s *ApprovalService) Get(ctx context.Context, actor employee.Employee, requestID string) (leave.LeaveRequestResponse, error) {
	lr, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if actor.Role == employee.RoleEmployee && lr.EmployeeID != actor.ID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	return lr.ToResponse(), nil
}

// List returns requests matching the filter. An employee's view is
// forced to their own requests.
func (s *ApprovalService) List(ctx context.Context, actor employee.Employee, filter leave.RequestFilter) (leave.ListLeaveRequestResponse, error) {
	if actor.Role == employee.RoleEmployee {
		filter.EmployeeID = &actor.ID
	}

	requests, total, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return toListResponse(requests, total), nil
}

// Queue returns the requests currently waiting on the actor's stage.
func (s *ApprovalService) Queue(ctx context.Context, actor employee.Employee, filter leave.RequestFilter) (leave.ListLeaveRequestResponse, error) {
	stage, _, _, ok := stageFor(actor.Role)
	if !ok {
		return leave.ListLeaveRequestResponse{}, leave.ErrWrongStage
	}

	requests, total, err := s.LeaveRequestRepository.ListByStatus(ctx, stage, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list stage queue: %w", err)
	}

	return toListResponse(requests, total), nil
}

// SetPriority lets a validator reorder their queue.
func (s *ApprovalService) SetPriority(ctx context.Context, actor employee.Employee, req leave.SetPriorityRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, _, _, ok := stageFor(actor.Role); !ok {
		return leave.ErrWrongStage
	}

	if _, err := s.LeaveRequestRepository.GetByID(ctx, req.RequestID); err != nil {
		return err
	}

	priority := leave.Priority(req.Priority)
	return s.LeaveRequestRepository.Update(ctx, leave.UpdateLeaveRequest{
		ID:       req.RequestID,
		Priority: &priority,
	})
}

// Timeline returns the audit trail of one request, oldest first.
func (s *ApprovalService) Timeline(ctx context.Context, actor employee.Employee, requestID string) ([]leave.ActionLogResponse, error) {
	lr, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor.Role == employee.RoleEmployee && lr.EmployeeID != actor.ID {
		return nil, leave.ErrLeaveRequestNotFound
	}

	entries, err := s.ActionLogRepository.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list action logs: %w", err)
	}

	responses := make([]leave.ActionLogResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, leave.ActionLogResponse{
			ID:        e.ID,
			RequestID: e.RequestID,
			Actor:     e.ActorName,
			Role:      e.Role,
			Action:    e.Action,
			Comment:   e.Comment,
			CreatedAt: e.CreatedAt,
		})
	}
	return responses, nil
}

// History returns the actor role's recent decisions.
func (s *ApprovalService) History(ctx context.Context, actor employee.Employee, limit int) ([]leave.ActionLogResponse, error) {
	if _, _, _, ok := stageFor(actor.Role); !ok {
		return nil, leave.ErrWrongStage
	}

	entries, err := s.ActionLogRepository.ListByRole(ctx, string(actor.Role), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list validation history: %w", err)
	}

	responses := make([]leave.ActionLogResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, leave.ActionLogResponse{
			ID:        e.ID,
			RequestID: e.RequestID,
			Actor:     e.ActorName,
			Role:      e.Role,
			Action:    e.Action,
			Comment:   e.Comment,
			CreatedAt: e.CreatedAt,
		})
	}
	return responses, nil
}

// Stats aggregates request counts for the dashboards.
func (s *ApprovalService) Stats(ctx context.Context) (leave.StatsResponse, error) {
	byStatus, err := s.LeaveRequestRepository.CountByStatus(ctx)
	if err != nil {
		return leave.StatsResponse{}, fmt.Errorf("failed to count by status: %w", err)
	}

	byCategory, err := s.LeaveRequestRepository.CountByCategory(ctx)
	if err != nil {
		return leave.StatsResponse{}, fmt.Errorf("failed to count by category: %w", err)
	}

	return leave.StatsResponse{ByStatus: byStatus, ByCategory: byCategory}, nil
}

// Performance aggregates validator throughput for the monitoring
// dashboards: per-validator decision counts with average processing
// hours, plus monthly outcome totals.
func (s *ApprovalService) Performance(ctx context.Context, months int) (leave.PerformanceResponse, error) {
	if months <= 0 {
		months = 6
	}

	validators, err := s.LeaveRequestRepository.ValidatorStats(ctx)
	if err != nil {
		return leave.PerformanceResponse{}, fmt.Errorf("failed to aggregate validator stats: %w", err)
	}

	monthly, err := s.LeaveRequestRepository.MonthlyStats(ctx, months)
	if err != nil {
		return leave.PerformanceResponse{}, fmt.Errorf("failed to aggregate monthly stats: %w", err)
	}

	return leave.PerformanceResponse{Validators: validators, Monthly: monthly}, nil
}

func toListResponse(requests []leave.LeaveRequest, total int64) leave.ListLeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		responses = append(responses, lr.ToResponse())
	}
	return leave.ListLeaveRequestResponse{Requests: responses, Total: total}
}
