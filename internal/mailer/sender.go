package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/spellbe/portal-api/internal/config"
)

// Message is a single outbound email.
type Message struct {
	To      []string
	From    string // empty uses the sender's default
	Subject string
	Text    string
	HTML    string
	ReplyTo string
}

// Sender delivers messages through an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewFromConfig builds the sender selected by MAIL_PROVIDER.
func NewFromConfig(cfg *config.Config) (Sender, error) {
	switch strings.ToLower(cfg.MailProvider) {
	case "", "smtp":
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("mailer: RESEND_API_KEY is required for the resend provider")
		}
		return NewResendSender(cfg.ResendAPIKey, cfg.MailFrom), nil
	case "noop":
		return NewNoopSender(), nil
	default:
		return nil, fmt.Errorf("mailer: unknown provider %q", cfg.MailProvider)
	}
}
