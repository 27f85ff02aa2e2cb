package mailer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spellbe/portal-api/internal/config"
	"github.com/spellbe/portal-api/internal/registration"
)

func TestStudentTemplates(t *testing.T) {
	s := registration.StudentSubmission{
		StudentName: "Ada",
		StudentAge:  "12",
		Grade:       "7",
		School:      "Lovelace Academy",
		ParentName:  "Grace",
		ParentEmail: "g@x.com",
		ParentPhone: "5551234567",
	}
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	admin, err := StudentAdminNotification(s, "STD-123456", at)
	if err != nil {
		t.Fatalf("admin template: %v", err)
	}
	if admin.Subject != "New Student Registration: Ada" {
		t.Errorf("subject = %q", admin.Subject)
	}
	for _, want := range []string{"Lovelace Academy", "STD-123456", "No previous experience", "Not provided"} {
		if !strings.Contains(admin.Text, want) {
			t.Errorf("admin text missing %q", want)
		}
	}
	if !strings.Contains(admin.HTML, "<h1>New Student Registration</h1>") {
		t.Errorf("admin html not rendered: %s", admin.HTML)
	}

	confirm, err := StudentConfirmation(s, "STD-123456", at)
	if err != nil {
		t.Fatalf("confirmation template: %v", err)
	}
	if !strings.HasPrefix(confirm.Text, "Dear Grace,") {
		t.Errorf("confirmation text = %q", confirm.Text)
	}
	if !strings.Contains(confirm.HTML, "STD-123456") {
		t.Error("confirmation html missing receipt ID")
	}

	msg := confirm.To("g@x.com")
	if len(msg.To) != 1 || msg.To[0] != "g@x.com" || msg.Subject != confirm.Subject {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestFacultyTemplates(t *testing.T) {
	f := registration.FacultySubmission{
		FullName:      "Grace Hopper",
		Phone:         "5551234567",
		Email:         "grace@x.com",
		Designation:   "Teacher",
		AvailableDays: "Mon, Wed",
	}
	at := time.Now()

	admin, err := FacultyAdminNotification(f, "FAC-000001", at)
	if err != nil {
		t.Fatalf("admin template: %v", err)
	}
	if !strings.Contains(admin.Text, "Not specified years") || !strings.Contains(admin.Text, "Mon, Wed") {
		t.Errorf("admin text = %s", admin.Text)
	}

	confirm, err := FacultyConfirmation(f, "FAC-000001", at)
	if err != nil {
		t.Fatalf("confirmation template: %v", err)
	}
	if confirm.Subject != "Spell-BE Faculty Application Received" {
		t.Errorf("subject = %q", confirm.Subject)
	}
}

func TestRawHTMLIsDropped(t *testing.T) {
	s := registration.StudentSubmission{StudentName: "<script>alert(1)</script>", ParentName: "P"}
	email, err := StudentConfirmation(s, "STD-000000", time.Now())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(email.HTML, "<script>") {
		t.Errorf("raw html leaked into email: %s", email.HTML)
	}
}

func TestSubmittedMarkdownIsLiteral(t *testing.T) {
	s := registration.StudentSubmission{
		StudentName: "[Verify here](http://evil.example)",
		School:      "**Bold** _school_",
		ParentName:  "# Parent",
	}
	email, err := StudentAdminNotification(s, "STD-000000", time.Now())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, bad := range []string{"<a href", "<strong>Bold", "<em>school", "<h1>Parent"} {
		if strings.Contains(email.HTML, bad) {
			t.Errorf("html contains %q: %s", bad, email.HTML)
		}
	}
	for _, want := range []string{"[Verify here](http://evil.example)", "**Bold** _school_"} {
		if !strings.Contains(email.HTML, want) {
			t.Errorf("html missing literal %q: %s", want, email.HTML)
		}
		if !strings.Contains(email.Text, want) {
			t.Errorf("text missing %q", want)
		}
	}
	if !strings.Contains(email.HTML, "<strong>Student Name:</strong>") {
		t.Errorf("template markdown not rendered: %s", email.HTML)
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Run("Noop", func(t *testing.T) {
		sender, err := NewFromConfig(&config.Config{MailProvider: "noop"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := sender.Send(context.Background(), Message{To: []string{"a@x.com"}}); err != nil {
			t.Errorf("noop send: %v", err)
		}
	})

	t.Run("ResendNeedsKey", func(t *testing.T) {
		if _, err := NewFromConfig(&config.Config{MailProvider: "resend"}); err == nil {
			t.Error("expected error without RESEND_API_KEY")
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, err := NewFromConfig(&config.Config{MailProvider: "pigeon"}); err == nil {
			t.Error("expected error for unknown provider")
		}
	})

	t.Run("SMTP", func(t *testing.T) {
		sender, err := NewFromConfig(&config.Config{MailProvider: "smtp", SMTPHost: "localhost", SMTPPort: 2525})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := sender.(*SMTPSender); !ok {
			t.Errorf("expected *SMTPSender, got %T", sender)
		}
	})
}
