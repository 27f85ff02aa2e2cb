package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/spellbe/portal-api/internal/capacity"
	"github.com/spellbe/portal-api/internal/dispatch"
	"github.com/spellbe/portal-api/internal/models"
	"github.com/spellbe/portal-api/internal/notifier"
	"github.com/spellbe/portal-api/internal/registration"
	"gorm.io/gorm"
)

type RegistrationHandler struct {
	db         *gorm.DB
	gate       *capacity.Gate
	dispatcher *dispatch.Dispatcher
	sinks      Sinks
	now        func() time.Time
}

func NewRegistrationHandler(db *gorm.DB, gate *capacity.Gate, dispatcher *dispatch.Dispatcher, sinks Sinks) *RegistrationHandler {
	return &RegistrationHandler{db: db, gate: gate, dispatcher: dispatcher, sinks: sinks, now: time.Now}
}

type CountResponse struct {
	Body capacity.Counts
}

func (h *RegistrationHandler) HandleCount(ctx context.Context, _ *struct{}) (*CountResponse, error) {
	counts, err := h.gate.Counts(ctx)
	if err != nil {
		slog.Error("count_failed", "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}
	return &CountResponse{Body: counts}, nil
}

type StudentRegisterRequest struct {
	Body registration.Student
}

type VolunteerRegisterRequest struct {
	Body registration.Volunteer
}

type ContactRequest struct {
	Body registration.Contact
}

type SubmissionResponse struct {
	Body struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
}

func newSubmissionResponse(message, id string) *SubmissionResponse {
	res := &SubmissionResponse{}
	res.Body.Message = message
	res.Body.ID = id
	return res
}

func (h *RegistrationHandler) HandleStudentRegister(ctx context.Context, input *StudentRegisterRequest) (*SubmissionResponse, error) {
	student := input.Body
	if err := h.checkOpen(ctx, capacity.Students); err != nil {
		return nil, registrationError(err)
	}
	if err := student.Prepare(); err != nil {
		return nil, registrationError(err)
	}

	id := shortID()
	row := models.StudentRegistration{PublicID: id, Student: student}
	if err := h.accept(ctx, capacity.Students, &row); err != nil {
		return nil, registrationError(err)
	}

	sinks := h.sinks.withSheet(nil, h.sinks.Ranges.Students, student.Row(h.now(), id))
	sinks = h.sinks.withDiscord(sinks, notifier.Summary{
		Kind: "Student",
		ID:   id,
		Fields: []notifier.Field{
			{Label: "Name", Value: student.Name},
			{Label: "Age", Value: student.Age},
			{Label: "School", Value: student.School},
			{Label: "Email", Value: student.Email},
		},
	})
	h.dispatcher.Run(ctx, sinks...)

	slog.Info("registration_accepted", "kind", "student", "id", id)
	return newSubmissionResponse("Registration successful", id), nil
}

func (h *RegistrationHandler) HandleVolunteerRegister(ctx context.Context, input *VolunteerRegisterRequest) (*SubmissionResponse, error) {
	volunteer := input.Body
	if err := h.checkOpen(ctx, capacity.Volunteers); err != nil {
		return nil, registrationError(err)
	}
	if err := volunteer.Prepare(); err != nil {
		return nil, registrationError(err)
	}

	id := shortID()
	row := models.VolunteerRegistration{PublicID: id, Volunteer: volunteer}
	if err := h.accept(ctx, capacity.Volunteers, &row); err != nil {
		return nil, registrationError(err)
	}

	sinks := h.sinks.withSheet(nil, h.sinks.Ranges.Volunteers, volunteer.Row(h.now(), id))
	sinks = h.sinks.withDiscord(sinks, notifier.Summary{
		Kind: "Volunteer",
		ID:   id,
		Fields: []notifier.Field{
			{Label: "Name", Value: volunteer.Name},
			{Label: "Organization", Value: volunteer.Organization},
			{Label: "Email", Value: volunteer.Email},
		},
	})
	h.dispatcher.Run(ctx, sinks...)

	slog.Info("registration_accepted", "kind", "volunteer", "id", id)
	return newSubmissionResponse("Registration successful", id), nil
}

func (h *RegistrationHandler) HandleContact(ctx context.Context, input *ContactRequest) (*SubmissionResponse, error) {
	contact := input.Body
	if err := contact.Prepare(); err != nil {
		return nil, registrationError(err)
	}

	id := shortID()
	row := models.ContactMessage{PublicID: id, Contact: contact}
	if err := h.accept(ctx, "", &row); err != nil {
		return nil, registrationError(err)
	}

	sinks := h.sinks.withSheet(nil, h.sinks.Ranges.Contacts, contact.Row(h.now(), id))
	sinks = h.sinks.withDiscord(sinks, notifier.Summary{
		Kind: "Contact",
		ID:   id,
		Fields: []notifier.Field{
			{Label: "Name", Value: contact.Name},
			{Label: "Email", Value: contact.Email},
			{Label: "Message", Value: contact.Message},
		},
	})
	h.dispatcher.Run(ctx, sinks...)

	slog.Info("contact_received", "id", id)
	return newSubmissionResponse("Message sent successfully", id), nil
}

// checkOpen rejects a full category before the payload is looked at, so a
// closed form gets the limit message whatever it contains. accept still
// enforces the cap atomically.
func (h *RegistrationHandler) checkOpen(ctx context.Context, cat capacity.Category) error {
	counts, err := h.gate.Counts(ctx)
	if err != nil {
		return err
	}
	if counts.LimitReached(cat) {
		return capacity.ErrLimitReached
	}
	return nil
}

// accept stores row, first taking a slot under cat's cap when cat is set.
// The increment and the insert commit or roll back together.
func (h *RegistrationHandler) accept(ctx context.Context, cat capacity.Category, row any) error {
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cat != "" {
			if err := h.gate.IncrementIfBelowCap(ctx, tx, cat); err != nil {
				return err
			}
		}
		return tx.Create(row).Error
	})
}

func registrationError(err error) error {
	switch {
	case registration.IsValidation(err):
		return huma.Error400BadRequest(registration.UserMessage(err))
	case errors.Is(err, capacity.ErrLimitReached):
		return huma.Error400BadRequest(capacity.LimitReachedMessage)
	default:
		slog.Error("registration_failed", "error", err)
		return huma.Error500InternalServerError("Internal server error")
	}
}

func shortID() string {
	return uuid.NewString()[:8]
}
