package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/gestion-conges/leave-backend-go/internal/config"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/retry"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService defines the interface for sending emails
type EmailService interface {
	SendDecisionNotice(ctx context.Context, to, employeeName, category, stage string, approved bool, comment string) error
	SendAwaitingValidation(ctx context.Context, to, employeeName, category, startDate string, totalDays int) error
	SendReminder(ctx context.Context, to, employeeName, category, startDate string, daysDelayed int) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	policy    retry.Policy
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		policy:    retry.DefaultPolicy(),
	}, nil
}

type decisionEmailData struct {
	EmployeeName string
	Category     string
	Stage        string
	Approved     bool
	Comment      string
}

// SendDecisionNotice tells the employee one stage decided on their request.
func (s *emailServiceImpl) SendDecisionNotice(ctx context.Context, to, employeeName, category, stage string, approved bool, comment string) error {
	data := decisionEmailData{
		EmployeeName: employeeName,
		Category:     category,
		Stage:        stage,
		Approved:     approved,
		Comment:      comment,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "decision.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Demande de congé %s : décision %s", category, stage)
	return s.sendHTML(ctx, to, subject, body.String())
}

type awaitingEmailData struct {
	EmployeeName string
	Category     string
	StartDate    string
	TotalDays    int
}

// SendAwaitingValidation tells the next validator a request awaits them.
func (s *emailServiceImpl) SendAwaitingValidation(ctx context.Context, to, employeeName, category, startDate string, totalDays int) error {
	data := awaitingEmailData{
		EmployeeName: employeeName,
		Category:     category,
		StartDate:    startDate,
		TotalDays:    totalDays,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "awaiting.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("Demande de congé de %s à valider", employeeName), body.String())
}

type reminderEmailData struct {
	EmployeeName string
	Category     string
	StartDate    string
	DaysDelayed  int
}

// SendReminder nudges a validator about a stalled request.
func (s *emailServiceImpl) SendReminder(ctx context.Context, to, employeeName, category, startDate string, daysDelayed int) error {
	data := reminderEmailData{
		EmployeeName: employeeName,
		Category:     category,
		StartDate:    startDate,
		DaysDelayed:  daysDelayed,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "reminder.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("Relance : demande de %s en attente", employeeName), body.String())
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	err := s.policy.Do(ctx, func() error {
		if err := smtp.SendMail(addr, auth, from, []string{to}, message); err != nil {
			slog.Error("Failed to send email", "to", to, "subject", subject, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}
