package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/domain/notification"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/email"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/sse"
)

// NotificationService persists in-app notifications, pushes them over
// SSE, and mirrors the important ones to email. All dispatch methods
// are called after the triggering transaction commits; a failure here
// is logged and never propagated into the approval flow.
type NotificationService struct {
	notification.NotificationRepository
	employee.EmployeeRepository
	hub   *sse.Hub
	email email.EmailService
}

func NewNotificationService(
	notificationRepository notification.NotificationRepository,
	employeeRepository employee.EmployeeRepository,
	hub *sse.Hub,
	emailService email.EmailService,
) *NotificationService {
	return &NotificationService{
		NotificationRepository: notificationRepository,
		EmployeeRepository:     employeeRepository,
		hub:                    hub,
		email:                  emailService,
	}
}

func (s *NotificationService) deliver(ctx context.Context, req notification.CreateNotificationRequest) {
	created, err := s.NotificationRepository.Create(ctx, notification.Notification{
		RecipientID: req.RecipientID,
		RequestID:   req.RequestID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
	})
	if err != nil {
		slog.Error("Failed to persist notification", "recipient_id", req.RecipientID, "type", req.Type, "error", err)
		return
	}

	s.hub.Publish(req.RecipientID, sse.Event{
		UserID: req.RecipientID,
		Event:  "notification",
		Data:   created.ToResponse(),
	})
}

// NotifySubmission fans the new request out to every direction
// validator.
func (s *NotificationService) NotifySubmission(ctx context.Context, req leave.LeaveRequest) {
	validators, err := s.EmployeeRepository.ListByRole(ctx, employee.RoleDirection)
	if err != nil {
		slog.Error("Failed to list direction validators", "error", err)
		return
	}

	for _, v := range validators {
		s.deliver(ctx, notification.CreateNotificationRequest{
			RecipientID: v.ID,
			RequestID:   &req.ID,
			Type:        notification.TypeRequestSubmitted,
			Title:       "Nouvelle demande de congé",
			Message:     fmt.Sprintf("%s a soumis une demande de congé %s (%d jours)", req.EmployeeName, req.Category, req.TotalDays),
		})
		if err := s.email.SendAwaitingValidation(ctx, v.Email, req.EmployeeName, string(req.Category), req.StartDate.Format("2006-01-02"), req.TotalDays); err != nil {
			slog.Error("Failed to send submission email", "to", v.Email, "request_id", req.ID, "error", err)
		}
	}
}

// NotifyDecision tells the employee about a stage decision and, when
// the request moved forward, alerts the next stage's validators.
func (s *NotificationService) NotifyDecision(ctx context.Context, req leave.LeaveRequest, stage string, approved bool, comment string) {
	notifType := notification.TypeRequestRejected
	title := "Demande de congé rejetée"
	if approved {
		notifType = notification.TypeRequestValidated
		title = "Demande de congé validée"
	}

	s.deliver(ctx, notification.CreateNotificationRequest{
		RecipientID: req.EmployeeID,
		RequestID:   &req.ID,
		Type:        notifType,
		Title:       title,
		Message:     fmt.Sprintf("Votre demande de congé %s a été traitée au niveau %s", req.Category, stage),
	})

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		slog.Error("Failed to get employee for decision email", "employee_id", req.EmployeeID, "error", err)
	} else if err := s.email.SendDecisionNotice(ctx, emp.Email, emp.Name, string(req.Category), stage, approved, comment); err != nil {
		slog.Error("Failed to send decision email", "to", emp.Email, "request_id", req.ID, "error", err)
	}

	if nextRole, ok := nextValidatorRole(req.Status); ok {
		s.notifyAwaiting(ctx, req, nextRole)
	}
}

// nextValidatorRole maps a non-terminal post-transition status to the
// role that now owns the request.
func nextValidatorRole(status leave.Status) (employee.Role, bool) {
	switch status {
	case leave.StatusValidatedByDirection:
		return employee.RoleDGPEC, true
	case leave.StatusValidatedByDGPEC:
		return employee.RoleDG, true
	}
	return "", false
}

func (s *NotificationService) notifyAwaiting(ctx context.Context, req leave.LeaveRequest, role employee.Role) {
	validators, err := s.EmployeeRepository.ListByRole(ctx, role)
	if err != nil {
		slog.Error("Failed to list validators", "role", role, "error", err)
		return
	}

	for _, v := range validators {
		s.deliver(ctx, notification.CreateNotificationRequest{
			RecipientID: v.ID,
			RequestID:   &req.ID,
			Type:        notification.TypeAwaitingValidation,
			Title:       "Demande de congé à valider",
			Message:     fmt.Sprintf("La demande de %s attend votre validation", req.EmployeeName),
		})
		if err := s.email.SendAwaitingValidation(ctx, v.Email, req.EmployeeName, string(req.Category), req.StartDate.Format("2006-01-02"), req.TotalDays); err != nil {
			slog.Error("Failed to send awaiting email", "to", v.Email, "request_id", req.ID, "error", err)
		}
	}
}

// NotifyReminder records an in-app reminder for one validator. The
// reminder email itself is sent by the sweep, which owns retry and
// logging for it.
func (s *NotificationService) NotifyReminder(ctx context.Context, req leave.LeaveRequest, validatorID string, daysDelayed int) {
	s.deliver(ctx, notification.CreateNotificationRequest{
		RecipientID: validatorID,
		RequestID:   &req.ID,
		Type:        notification.TypeReminder,
		Title:       "Relance : demande en attente",
		Message:     fmt.Sprintf("La demande de %s attend votre validation depuis %d jours ouvrés", req.EmployeeName, daysDelayed),
	})
}

// NotifyQuotaAdjusted tells the employee an administrator changed
// their balance.
func (s *NotificationService) NotifyQuotaAdjusted(ctx context.Context, employeeID, category, comment string) {
	s.deliver(ctx, notification.CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        notification.TypeQuotaAdjusted,
		Title:       "Quota de congés ajusté",
		Message:     fmt.Sprintf("Votre quota %s a été ajusté : %s", category, comment),
	})
}

// List returns the recipient's notifications with the unread count.
func (s *NotificationService) List(ctx context.Context, recipientID string, unreadOnly bool, limit int) (notification.ListNotificationResponse, error) {
	notifications, err := s.NotificationRepository.ListByRecipient(ctx, recipientID, unreadOnly, limit)
	if err != nil {
		return notification.ListNotificationResponse{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.NotificationRepository.CountUnread(ctx, recipientID)
	if err != nil {
		return notification.ListNotificationResponse{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, n.ToResponse())
	}

	return notification.ListNotificationResponse{
		Notifications: responses,
		UnreadCount:   unread,
	}, nil
}

// MarkRead marks one notification read after checking ownership.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID string) error {
	n, err := s.NotificationRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != recipientID {
		return notification.ErrNotRecipient
	}

	return s.NotificationRepository.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.NotificationRepository.MarkAllAsRead(ctx, recipientID)
}
