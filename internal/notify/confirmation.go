package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/medrehab/clinic-concierge/internal/booking"
	"github.com/medrehab/clinic-concierge/pkg/logging"
)

// ConfirmationService adapts an EmailSender to the orchestrator's
// confirmation hook, adding a small HTML rendering of the plain body.
type ConfirmationService struct {
	sender EmailSender
	logger *logging.Logger
}

// NewConfirmationService falls back to the stub sender when sender is nil.
func NewConfirmationService(sender EmailSender, logger *logging.Logger) *ConfirmationService {
	if logger == nil {
		logger = logging.Default()
	}
	if sender == nil {
		sender = NewStubEmailSender(logger)
	}
	return &ConfirmationService{sender: sender, logger: logger}
}

// SendConfirmation sends the booking confirmation to the patient.
func (s *ConfirmationService) SendConfirmation(ctx context.Context, to, subject, body string) error {
	msg := EmailMessage{
		To:      to,
		Subject: subject,
		Body:    body,
		HTML:    renderHTML(subject, body),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: confirmation to %s: %w", to, err)
	}
	return nil
}

func renderHTML(subject, body string) string {
	return fmt.Sprintf(
		"<html><body><h2>%s</h2><pre style=\"font-family:inherit\">%s</pre></body></html>",
		html.EscapeString(subject), html.EscapeString(body))
}

var _ booking.ConfirmationSender = (*ConfirmationService)(nil)
