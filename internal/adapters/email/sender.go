package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address, e.g. "FitHub <noreply@fithub.example>"; empty uses the sender default
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
