package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/spellbe/portal-api/internal/auth"
	"github.com/spellbe/portal-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewEventHandler(db *gorm.DB, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{db: db, authHandler: authHandler}
}

type EventResponse struct {
	Body models.EventContent
}

type UpdateEventRequest struct {
	auth.AuthInput
	Body models.EventContent
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *EventHandler) HandleGetEvent(ctx context.Context, _ *struct{}) (*EventResponse, error) {
	event, err := h.load(ctx, h.db)
	if err != nil {
		slog.Error("event_load_failed", "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}
	return &EventResponse{Body: event.EventContent}, nil
}

func (h *EventHandler) HandleUpdateEvent(ctx context.Context, input *UpdateEventRequest) (*MessageResponse, error) {
	if err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := h.load(ctx, tx)
		if err != nil {
			return err
		}
		event.EventContent = input.Body
		return tx.Save(&event).Error
	})
	if err != nil {
		slog.Error("event_update_failed", "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	slog.Info("event_updated", "title", input.Body.Title)
	res := &MessageResponse{}
	res.Body.Message = "Event updated successfully"
	return res, nil
}

// load returns the event row, creating it with the default content on first use.
// Concurrent first reads may both try the insert; the loser keeps the winner's row.
func (h *EventHandler) load(ctx context.Context, db *gorm.DB) (models.Event, error) {
	var event models.Event
	err := db.WithContext(ctx).First(&event, models.EventID).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return event, err
	}

	seed := models.Event{
		Model:        gorm.Model{ID: models.EventID},
		EventContent: models.DefaultEventContent(),
	}
	err = db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error
	if err != nil {
		return event, err
	}

	event = models.Event{}
	err = db.WithContext(ctx).First(&event, models.EventID).Error
	return event, err
}
