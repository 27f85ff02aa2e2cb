package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spellbe/portal-api/internal/dispatch"
	"github.com/spellbe/portal-api/internal/mailer"
	"github.com/spellbe/portal-api/internal/models"
	"github.com/spellbe/portal-api/internal/notifier"
	"github.com/spellbe/portal-api/internal/sheets"
	"gorm.io/gorm"
)

const (
	SinkAdminEmail        = "admin-email"
	SinkConfirmationEmail = "confirmation-email"
	SinkSheet             = "sheet"
	SinkDiscord           = "discord"
	SinkSubmissionLog     = "submission-log"
)

// Policies decides which side effects of an accepted submission may fail the
// request. Emails are essential; the spreadsheet, Discord and the local
// submission log are supplementary.
var Policies = dispatch.Policies{
	SinkAdminEmail:        dispatch.Fatal,
	SinkConfirmationEmail: dispatch.Fatal,
	SinkSheet:             dispatch.BestEffort,
	SinkDiscord:           dispatch.BestEffort,
	SinkSubmissionLog:     dispatch.BestEffort,
}

var errNoAdminEmail = errors.New("ADMIN_EMAIL is not configured")

type SheetRanges struct {
	Students   string
	Faculty    string
	Volunteers string
	Contacts   string
}

// Sinks are the downstream targets of accepted submissions. Sheets and
// Notifier are nil when not configured, which drops their sink.
type Sinks struct {
	Mailer     mailer.Sender
	AdminEmail string
	Sheets     sheets.Appender
	Ranges     SheetRanges
	Notifier   notifier.Notifier
}

func (s Sinks) adminEmail(email mailer.Email, replyTo string) dispatch.Sink {
	return dispatch.Sink{Name: SinkAdminEmail, Send: func(ctx context.Context) error {
		if s.AdminEmail == "" {
			return errNoAdminEmail
		}
		msg := email.To(s.AdminEmail)
		msg.ReplyTo = replyTo
		return s.Mailer.Send(ctx, msg)
	}}
}

func (s Sinks) confirmationEmail(email mailer.Email, to string) dispatch.Sink {
	return dispatch.Sink{Name: SinkConfirmationEmail, Send: func(ctx context.Context) error {
		return s.Mailer.Send(ctx, email.To(to))
	}}
}

func (s Sinks) withSheet(sinks []dispatch.Sink, rangeA1 string, row []string) []dispatch.Sink {
	if s.Sheets == nil {
		return sinks
	}
	return append(sinks, dispatch.Sink{Name: SinkSheet, Send: func(ctx context.Context) error {
		return s.Sheets.Append(ctx, rangeA1, row)
	}})
}

func (s Sinks) withDiscord(sinks []dispatch.Sink, summary notifier.Summary) []dispatch.Sink {
	if s.Notifier == nil {
		return sinks
	}
	return append(sinks, dispatch.Sink{Name: SinkDiscord, Send: func(ctx context.Context) error {
		return s.Notifier.NotifyRegistration(ctx, summary)
	}})
}

func submissionLog(db *gorm.DB, kind, receiptID, email string, payload any) dispatch.Sink {
	return dispatch.Sink{Name: SinkSubmissionLog, Send: func(ctx context.Context) error {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		return db.WithContext(ctx).Create(&models.Submission{
			ReceiptID: receiptID,
			Kind:      kind,
			Email:     email,
			Payload:   string(raw),
		}).Error
	}}
}
