package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/spellbe/portal-api/internal/registration"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.md
var templateFS embed.FS

// Submitted values go through v. The text part prints them as typed; the HTML
// part escapes them first so goldmark renders them as plain text.
var (
	textTemplates = parseTemplates(func(s any) string { return fmt.Sprint(s) })
	htmlTemplates = parseTemplates(func(s any) string { return escapeMarkdown(fmt.Sprint(s)) })
	markdown      = goldmark.New()
)

func parseTemplates(v func(any) string) *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{"v": v}).ParseFS(templateFS, "templates/*.md"))
}

// escapeMarkdown backslash-escapes every ASCII punctuation character, which
// CommonMark always reads back as the literal character.
func escapeMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Email is a rendered message body: the markdown source is the plain-text
// part and goldmark renders the HTML part. Raw HTML in submitted values is
// dropped by goldmark's default renderer.
type Email struct {
	Subject string
	Text    string
	HTML    string
}

// To addresses the rendered email.
func (e Email) To(recipients ...string) Message {
	return Message{To: recipients, Subject: e.Subject, Text: e.Text, HTML: e.HTML}
}

type studentData struct {
	S           registration.StudentSubmission
	ReceiptID   string
	SubmittedAt string
}

type facultyData struct {
	F           registration.FacultySubmission
	ReceiptID   string
	SubmittedAt string
}

func submittedAt(t time.Time) string {
	return t.Format("January 2, 2006 3:04 PM MST")
}

func StudentAdminNotification(s registration.StudentSubmission, receiptID string, at time.Time) (Email, error) {
	return render("student_admin.md",
		"New Student Registration: "+string(s.StudentName),
		studentData{S: s, ReceiptID: receiptID, SubmittedAt: submittedAt(at)})
}

func StudentConfirmation(s registration.StudentSubmission, receiptID string, at time.Time) (Email, error) {
	return render("student_confirmation.md",
		"Spell-BE Student Registration Confirmation",
		studentData{S: s, ReceiptID: receiptID, SubmittedAt: submittedAt(at)})
}

func FacultyAdminNotification(f registration.FacultySubmission, receiptID string, at time.Time) (Email, error) {
	return render("faculty_admin.md",
		"New Faculty Application: "+string(f.FullName),
		facultyData{F: f, ReceiptID: receiptID, SubmittedAt: submittedAt(at)})
}

func FacultyConfirmation(f registration.FacultySubmission, receiptID string, at time.Time) (Email, error) {
	return render("faculty_confirmation.md",
		"Spell-BE Faculty Application Received",
		facultyData{F: f, ReceiptID: receiptID, SubmittedAt: submittedAt(at)})
}

func render(name, subject string, data any) (Email, error) {
	var text, src bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name, data); err != nil {
		return Email{}, fmt.Errorf("render %s: %w", name, err)
	}
	if err := htmlTemplates.ExecuteTemplate(&src, name, data); err != nil {
		return Email{}, fmt.Errorf("render %s: %w", name, err)
	}

	var html bytes.Buffer
	if err := markdown.Convert(src.Bytes(), &html); err != nil {
		return Email{}, fmt.Errorf("convert %s: %w", name, err)
	}

	return Email{Subject: subject, Text: text.String(), HTML: html.String()}, nil
}
