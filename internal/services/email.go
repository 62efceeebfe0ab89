package services

import (
	"context"
	"fmt"
	"log/slog"

	"sedesupport/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendVisitReminder sends the next-day visit reminder using the
// "visit_reminder" template.
func (s *emailService) SendVisitReminder(ctx context.Context, data *domain.VisitReminderEmailData) error {
	if data == nil {
		return fmt.Errorf("visit reminder data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("visit_reminder", data)
	if err != nil {
		return fmt.Errorf("failed to render visit_reminder template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send visit reminder email: %w", err)
	}
	s.logger.Info("visit reminder sent", "email", data.Email, "reference", data.Reference)
	return nil
}
