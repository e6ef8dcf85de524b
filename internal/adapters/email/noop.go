package email

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
)

// NoopSender logs sends but does not deliver them. Sent messages are kept
// so development pages and tests can inspect them.
type NoopSender struct {
	mu   sync.Mutex
	sent []SendRequest
}

var _ Sender = (*NoopSender)(nil)

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the email and keeps a copy.
// POST: Returns a noop result without actual delivery
func (s *NoopSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	s.mu.Lock()
	s.sent = append(s.sent, req)
	s.mu.Unlock()

	slog.InfoContext(ctx, "noop_email_send", "to", req.To, "subject", req.Subject)
	return SendResult{
		MessageID: "noop-" + xid.New().String(),
		SentAt:    time.Now(),
	}, nil
}

// Sent returns a copy of every request passed to Send.
func (s *NoopSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SendRequest, len(s.sent))
	copy(out, s.sent)
	return out
}
