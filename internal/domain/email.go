package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// HostMessageEmailData holds data for the host broadcast email.
type HostMessageEmailData struct {
	Email      string
	GuestName  string
	HostName   string
	EventTitle string
	Subject    string
	Message    string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendHostMessage(ctx context.Context, data *HostMessageEmailData) error
}
