// Package reminder implements the sweep that chases stalled leave
// requests: any request sitting in one stage past the business-day
// threshold gets its validators nudged, at most once per stage entry
// until the re-notify interval elapses.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/email"
)

// Calculator measures elapsed business days between two instants.
type Calculator interface {
	ElapsedSince(ctx context.Context, since, now time.Time) (int, error)
}

// Notifier records an in-app reminder for a validator.
type Notifier interface {
	NotifyReminder(ctx context.Context, req leave.LeaveRequest, validatorID string, daysDelayed int)
}

type ReminderService struct {
	leave.LeaveRequestRepository
	leave.ReminderLogRepository
	employee.EmployeeRepository
	calculator Calculator
	notifier   Notifier
	email      email.EmailService

	// ThresholdDays bounds the acceptable wait: a request is stalled
	// once its business-day delay exceeds this, not at it.
	ThresholdDays int
	// ReNotifyInterval is how long after a reminder the next one for
	// the same stage may go out.
	ReNotifyInterval time.Duration
}

func NewReminderService(
	leaveRequestRepository leave.LeaveRequestRepository,
	reminderLogRepository leave.ReminderLogRepository,
	employeeRepository employee.EmployeeRepository,
	calculator Calculator,
	notifier Notifier,
	emailService email.EmailService,
	thresholdDays int,
	reNotifyInterval time.Duration,
) *ReminderService {
	return &ReminderService{
		LeaveRequestRepository: leaveRequestRepository,
		ReminderLogRepository:  reminderLogRepository,
		EmployeeRepository:     employeeRepository,
		calculator:             calculator,
		notifier:               notifier,
		email:                  emailService,
		ThresholdDays:          thresholdDays,
		ReNotifyInterval:       reNotifyInterval,
	}
}

// validatorRoleFor maps an open status to the role whose decision it
// waits on.
func validatorRoleFor(status leave.Status) (employee.Role, bool) {
	switch status {
	case leave.StatusPending:
		return employee.RoleDirection, true
	case leave.StatusValidatedByDirection:
		return employee.RoleDGPEC, true
	case leave.StatusValidatedByDGPEC:
		return employee.RoleDG, true
	}
	return "", false
}

// Scan finds stalled requests and sends reminders. One failing
// request never stops the sweep; its error is logged and the loop
// moves on. Returns the number of requests reminded.
func (s *ReminderService) Scan(ctx context.Context) (int, error) {
	now := time.Now()

	// Calendar-day cutoff is a superset of the business-day rule;
	// each candidate is re-checked against actual working days below.
	cutoff := now.AddDate(0, 0, -s.ThresholdDays)
	candidates, err := s.LeaveRequestRepository.ListOpenEnteredBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stalled candidates: %w", err)
	}

	reminded := 0
	for _, lr := range candidates {
		sent, err := s.remind(ctx, lr, now)
		if err != nil {
			slog.Error("Reminder failed for request", "request_id", lr.ID, "status", lr.Status, "error", err)
			continue
		}
		if sent {
			reminded++
		}
	}

	slog.Info("Reminder sweep finished", "candidates", len(candidates), "reminded", reminded)
	return reminded, nil
}

func (s *ReminderService) remind(ctx context.Context, lr leave.LeaveRequest, now time.Time) (bool, error) {
	daysDelayed, err := s.calculator.ElapsedSince(ctx, lr.StageEnteredAt, now)
	if err != nil {
		return false, err
	}
	// Stalled means strictly past the threshold.
	if daysDelayed <= s.ThresholdDays {
		return false, nil
	}

	role, ok := validatorRoleFor(lr.Status)
	if !ok {
		return false, nil
	}

	alreadySent, err := s.ReminderLogRepository.Exists(ctx, lr.ID, lr.StageEnteredAt)
	if err != nil {
		return false, err
	}
	if alreadySent {
		// Re-notify only after the interval since the last reminder.
		if lr.LastReminderAt == nil || now.Sub(*lr.LastReminderAt) < s.ReNotifyInterval {
			return false, nil
		}
	}

	validators, err := s.EmployeeRepository.ListByRole(ctx, role)
	if err != nil {
		return false, fmt.Errorf("failed to list validators for role %s: %w", role, err)
	}
	if len(validators) == 0 {
		slog.Warn("No validators to remind", "role", role, "request_id", lr.ID)
		return false, nil
	}

	message := fmt.Sprintf("demande %s en attente depuis %d jours ouvrés", lr.ID, daysDelayed)
	for _, v := range validators {
		if err := s.email.SendReminder(ctx, v.Email, lr.EmployeeName, string(lr.Category), lr.StartDate.Format("2006-01-02"), daysDelayed); err != nil {
			slog.Error("Failed to send reminder email", "to", v.Email, "request_id", lr.ID, "error", err)
			continue
		}

		if _, err := s.ReminderLogRepository.Create(ctx, leave.ReminderLog{
			RequestID:      lr.ID,
			SentTo:         v.ID,
			StageEnteredAt: lr.StageEnteredAt,
			Message:        message,
		}); err != nil {
			return false, fmt.Errorf("failed to log reminder: %w", err)
		}

		s.notifier.NotifyReminder(ctx, lr, v.ID, daysDelayed)
	}

	newCount := lr.ReminderCount + 1
	if err := s.LeaveRequestRepository.Update(ctx, leave.UpdateLeaveRequest{
		ID:             lr.ID,
		ReminderCount:  &newCount,
		LastReminderAt: &now,
	}); err != nil {
		return false, fmt.Errorf("failed to bump reminder count: %w", err)
	}

	return true, nil
}

// Delayed returns the stalled requests for the monitoring view,
// without sending anything.
func (s *ReminderService) Delayed(ctx context.Context) ([]leave.DelayedRequestResponse, error) {
	now := time.Now()

	cutoff := now.AddDate(0, 0, -s.ThresholdDays)
	candidates, err := s.LeaveRequestRepository.ListOpenEnteredBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stalled candidates: %w", err)
	}

	delayed := make([]leave.DelayedRequestResponse, 0)
	for _, lr := range candidates {
		daysDelayed, err := s.calculator.ElapsedSince(ctx, lr.StageEnteredAt, now)
		if err != nil {
			return nil, err
		}
		if daysDelayed <= s.ThresholdDays {
			continue
		}

		role, ok := validatorRoleFor(lr.Status)
		if !ok {
			continue
		}

		delayed = append(delayed, leave.DelayedRequestResponse{
			RequestID:     lr.ID,
			EmployeeName:  lr.EmployeeName,
			Type:          lr.Category,
			StartDate:     lr.StartDate.Format("2006-01-02"),
			Status:        lr.Status,
			DaysDelayed:   daysDelayed,
			ValidatorRole: string(role),
		})
	}

	return delayed, nil
}

// DelayedCount is the cheap poll backing the dashboard badge.
func (s *ReminderService) DelayedCount(ctx context.Context) (int, error) {
	delayed, err := s.Delayed(ctx)
	if err != nil {
		return 0, err
	}
	return len(delayed), nil
}
