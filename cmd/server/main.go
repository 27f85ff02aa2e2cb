package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/spellbe/portal-api/internal/auth"
	"github.com/spellbe/portal-api/internal/capacity"
	"github.com/spellbe/portal-api/internal/config"
	"github.com/spellbe/portal-api/internal/database"
	"github.com/spellbe/portal-api/internal/dispatch"
	"github.com/spellbe/portal-api/internal/handlers"
	"github.com/spellbe/portal-api/internal/mailer"
	"github.com/spellbe/portal-api/internal/notifier"
	"github.com/spellbe/portal-api/internal/sheets"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	gate := capacity.NewGate(db, cfg.StudentCapacity, cfg.VolunteerCapacity)
	if err := gate.Seed(context.Background()); err != nil {
		log.Fatalf("Failed to seed registration counters: %v", err)
	}

	// Downstream sinks
	sender, err := mailer.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}
	sinks := handlers.Sinks{
		Mailer:     sender,
		AdminEmail: cfg.AdminEmail,
		Ranges: handlers.SheetRanges{
			Students:   cfg.StudentSheetRange,
			Faculty:    cfg.FacultySheetRange,
			Volunteers: cfg.VolunteerSheetRange,
			Contacts:   cfg.ContactSheetRange,
		},
	}
	if cfg.SheetID != "" {
		sinks.Sheets = sheets.NewGoogleSheets(cfg.SheetID, cfg.GoogleServiceAccount)
	}
	discordNotifier, err := notifier.NewDiscordNotifier(cfg)
	if err != nil {
		slog.Info("discord_disabled", "reason", err)
	} else {
		sinks.Notifier = discordNotifier
	}

	// Initialize Handlers
	dispatcher := dispatch.New(handlers.Policies)
	authHandler := auth.NewAuthHandler(cfg)
	registrationHandler := handlers.NewRegistrationHandler(db, gate, dispatcher, sinks)
	eventHandler := handlers.NewEventHandler(db, authHandler)
	functionHandler := handlers.NewFunctionHandler(db, dispatcher, sinks)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg.AllowedOrigins(), authHandler, registrationHandler, eventHandler, functionHandler)

	// Start Server
	slog.Info("server_starting", "port", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
