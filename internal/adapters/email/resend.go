package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

var _ Sender = (*ResendSender)(nil)

// NewResendSender creates a sender with the given API key and default from address.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send sends a single email via Resend.
// PRE: req has at least one recipient and a subject
// POST: Email is queued for delivery; returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := req.From
	if from == "" {
		from = s.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
	}
	if req.ReplyTo != "" {
		params.ReplyTo = req.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.ErrorContext(ctx, "resend_send_failed", "error", err, "to", req.To, "subject", req.Subject)
		return SendResult{}, errors.Wrap(err, "resend send failed")
	}

	slog.InfoContext(ctx, "resend_sent", "message_id", sent.Id, "to", req.To, "subject", req.Subject)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

// NewSender picks Resend when apiKey is set and the noop sender otherwise.
func NewSender(apiKey, from string) Sender {
	if apiKey == "" {
		slog.Info("email_sender", "backend", "noop")
		return NewNoopSender()
	}
	slog.Info("email_sender", "backend", "resend", "from", from)
	return NewResendSender(apiKey, from)
}
