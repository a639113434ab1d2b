package notify

import (
	"context"
	"sync"

	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer records messages instead of delivering them. Used in demo mode and when SES is not configured.
type LogMailer struct {
	mu   sync.Mutex
	sent []Message
}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	logger.New(ctx).LogInfof("mail.send", "to=%s subject=%q (not delivered)", msg.To, msg.Subject)
	return nil
}

// Sent returns a copy of recorded messages.
func (m *LogMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
