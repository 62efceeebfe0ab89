package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the
// given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// VisitReminderEmailData holds data for the next-day visit reminder email
// sent to a technician.
type VisitReminderEmailData struct {
	Email          string
	TechnicianName string
	SedeName       string
	SedeAddress    string
	Date           string // canonical YYYY-MM-DD
	Reference      string
	Notes          string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendVisitReminder(ctx context.Context, data *VisitReminderEmailData) error
}
