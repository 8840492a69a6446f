package handlers

import (
	"net/http"

	"github.com/campus-events/event-reg/internal/auth"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(r *chi.Mux, authHandler *auth.AuthHandler, registrationHandler *RegistrationHandler, adminHandler *AdminHandler, metricsHandler http.Handler) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Event Registration API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	// Auth routes
	r.Get("/auth/login", authHandler.HandleLogin)
	r.Get("/auth/callback", authHandler.HandleCallback)

	huma.Get(api, "/registration/form", registrationHandler.HandleForm)
	huma.Get(api, "/registration/options", registrationHandler.HandleOptions)
	huma.Post(api, "/registration", registrationHandler.HandleRegister, func(o *huma.Operation) {
		o.DefaultStatus = http.StatusCreated
	})

	// Protected routes
	protected := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
		o.Middlewares = append(o.Middlewares, wrap(authHandler.AuthMiddleware))
	}
	huma.Get(api, "/admin/registrations", adminHandler.HandleList, protected)
	huma.Get(api, "/admin/registrations/filters", adminHandler.HandleFilters, protected)
	huma.Get(api, "/admin/registrations/export", adminHandler.HandleExport, protected, func(o *huma.Operation) {
		o.Responses = map[string]*huma.Response{
			"200": {
				Description: "Registrations as CSV",
				Content: map[string]*huma.MediaType{
					"text/csv": {},
				},
			},
		}
	})
}

// wrap runs a net/http middleware in front of a single huma operation.
func wrap(mw func(http.Handler) http.Handler) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)
		mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			next(huma.WithContext(ctx, r.Context()))
		})).ServeHTTP(w, r)
	}
}
