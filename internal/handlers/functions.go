package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spellbe/portal-api/internal/dispatch"
	"github.com/spellbe/portal-api/internal/mailer"
	"github.com/spellbe/portal-api/internal/notifier"
	"github.com/spellbe/portal-api/internal/registration"
	"gorm.io/gorm"
)

const maxFunctionBody = 1 << 20

// FunctionHandler serves the standalone submit-student and submit-faculty
// endpoints. They are plain net/http handlers because their error bodies use
// {"error": ...} rather than huma's problem documents.
type FunctionHandler struct {
	db         *gorm.DB
	dispatcher *dispatch.Dispatcher
	sinks      Sinks
	now        func() time.Time
}

func NewFunctionHandler(db *gorm.DB, dispatcher *dispatch.Dispatcher, sinks Sinks) *FunctionHandler {
	return &FunctionHandler{db: db, dispatcher: dispatcher, sinks: sinks, now: time.Now}
}

// accepted is what a submission contributes once it has been validated.
type accepted struct {
	receiptID string
	sinks     []dispatch.Sink
	message   string
}

func (h *FunctionHandler) SubmitStudent(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Failed to submit registration. Please try again later.", func(body []byte) (*accepted, error) {
		var s registration.StudentSubmission
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, fmt.Errorf("decode student submission: %w", err)
		}
		if err := s.Prepare(); err != nil {
			return nil, err
		}

		at := h.now()
		receiptID := registration.NewReceiptID(registration.PrefixStudent, at)

		admin, err := mailer.StudentAdminNotification(s, receiptID, at)
		if err != nil {
			return nil, err
		}
		confirmation, err := mailer.StudentConfirmation(s, receiptID, at)
		if err != nil {
			return nil, err
		}

		sinks := []dispatch.Sink{
			h.sinks.adminEmail(admin, string(s.ParentEmail)),
			h.sinks.confirmationEmail(confirmation, string(s.ParentEmail)),
		}
		sinks = h.sinks.withSheet(sinks, h.sinks.Ranges.Students, s.Row(at, receiptID))
		sinks = h.sinks.withDiscord(sinks, notifier.Summary{
			Kind: "Student",
			ID:   receiptID,
			Fields: []notifier.Field{
				{Label: "Student", Value: string(s.StudentName)},
				{Label: "Grade", Value: string(s.Grade)},
				{Label: "School", Value: string(s.School)},
				{Label: "Parent", Value: string(s.ParentName)},
			},
		})
		sinks = append(sinks, submissionLog(h.db, "student", receiptID, string(s.ParentEmail), s))

		return &accepted{
			receiptID: receiptID,
			sinks:     sinks,
			message: fmt.Sprintf("Registration submitted successfully! Registration ID: %s. Check your email for confirmation.",
				receiptID),
		}, nil
	})
}

func (h *FunctionHandler) SubmitFaculty(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Failed to submit application. Please try again later.", func(body []byte) (*accepted, error) {
		var f registration.FacultySubmission
		if err := json.Unmarshal(body, &f); err != nil {
			return nil, fmt.Errorf("decode faculty submission: %w", err)
		}
		if err := f.Prepare(); err != nil {
			return nil, err
		}

		at := h.now()
		receiptID := registration.NewReceiptID(registration.PrefixFaculty, at)

		admin, err := mailer.FacultyAdminNotification(f, receiptID, at)
		if err != nil {
			return nil, err
		}
		confirmation, err := mailer.FacultyConfirmation(f, receiptID, at)
		if err != nil {
			return nil, err
		}

		sinks := []dispatch.Sink{
			h.sinks.adminEmail(admin, string(f.Email)),
			h.sinks.confirmationEmail(confirmation, string(f.Email)),
		}
		sinks = h.sinks.withSheet(sinks, h.sinks.Ranges.Faculty, f.Row(at, receiptID))
		sinks = h.sinks.withDiscord(sinks, notifier.Summary{
			Kind: "Faculty",
			ID:   receiptID,
			Fields: []notifier.Field{
				{Label: "Name", Value: string(f.FullName)},
				{Label: "Designation", Value: string(f.Designation)},
				{Label: "Available", Value: string(f.AvailableDays)},
			},
		})
		sinks = append(sinks, submissionLog(h.db, "faculty", receiptID, string(f.Email), f))

		return &accepted{
			receiptID: receiptID,
			sinks:     sinks,
			message: fmt.Sprintf("Application submitted successfully! Registration ID: %s. Check your email for confirmation.",
				receiptID),
		}, nil
	})
}

func (h *FunctionHandler) serve(w http.ResponseWriter, r *http.Request, failure string, accept func([]byte) (*accepted, error)) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	defer func() {
		if p := recover(); p != nil {
			slog.Error("submission_panic", "path", r.URL.Path, "panic", p)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": failure})
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFunctionBody))
	if err != nil {
		slog.Error("submission_read_failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": failure})
		return
	}

	result, err := accept(body)
	if err != nil {
		if registration.IsValidation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": registration.UserMessage(err)})
			return
		}
		slog.Error("submission_failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": failure})
		return
	}

	report := h.dispatcher.Run(context.WithoutCancel(r.Context()), result.sinks...)
	if err := report.Err(); err != nil {
		slog.Error("submission_failed", "path", r.URL.Path, "receipt_id", result.receiptID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": failure})
		return
	}

	slog.Info("submission_accepted", "path", r.URL.Path, "receipt_id", result.receiptID)
	writeJSON(w, http.StatusOK, map[string]string{"message": result.message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_write_failed", "error", err)
	}
}
