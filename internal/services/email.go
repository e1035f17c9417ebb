package services

import (
	"context"
	"fmt"
	"log"

	"gatherly/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendHostMessage sends a host broadcast email using the "host_message" template.
func (s *emailService) SendHostMessage(ctx context.Context, data *domain.HostMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("host message data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("host_message", data)
	if err != nil {
		return fmt.Errorf("failed to render host_message template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send host message email: %w", err)
	}
	log.Printf("[EMAIL] Host message sent to %s", data.Email)
	return nil
}
