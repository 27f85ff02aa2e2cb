package mailer

import (
	"context"
	"log/slog"
)

// NoopSender logs messages instead of delivering them. Used for local runs.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(_ context.Context, msg Message) error {
	slog.Info("noop_email_send", "to", msg.To, "subject", msg.Subject)
	return nil
}
