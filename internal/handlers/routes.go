package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spellbe/portal-api/internal/auth"
)

type BannerResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func RegisterRoutes(r *chi.Mux, allowedOrigins []string, authHandler *auth.AuthHandler, registrationHandler *RegistrationHandler, eventHandler *EventHandler, functionHandler *FunctionHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	config := huma.DefaultConfig("Spell-BE Portal API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	huma.Get(api, "/api/", func(ctx context.Context, _ *struct{}) (*BannerResponse, error) {
		res := &BannerResponse{}
		res.Body.Message = "Spell-BE Portal API"
		return res, nil
	})

	huma.Get(api, "/api/registrations/count", registrationHandler.HandleCount)
	huma.Post(api, "/api/students/register", registrationHandler.HandleStudentRegister)
	huma.Post(api, "/api/volunteers/register", registrationHandler.HandleVolunteerRegister)
	huma.Post(api, "/api/contact", registrationHandler.HandleContact)

	// Admin routes
	huma.Post(api, "/api/admin/login", authHandler.HandleLogin)
	huma.Get(api, "/api/admin/event", eventHandler.HandleGetEvent)
	huma.Put(api, "/api/admin/event", eventHandler.HandleUpdateEvent, func(o *huma.Operation) {
		o.Security = auth.SecurityRequirement
	})

	// Standalone functions, also reachable under their Netlify paths.
	for _, prefix := range []string{"/functions", "/.netlify/functions"} {
		r.HandleFunc(prefix+"/submit-student", functionHandler.SubmitStudent)
		r.HandleFunc(prefix+"/submit-faculty", functionHandler.SubmitFaculty)
	}
}
