package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medrehab/clinic-concierge/internal/http/handlers"
	httpmiddleware "github.com/medrehab/clinic-concierge/internal/http/middleware"
	"github.com/medrehab/clinic-concierge/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	HealthHandler  *handlers.HealthHandler
	ToolsHandler   *handlers.ToolsHandler
	MCPHandler     *handlers.MCPHandler
	MetricsHandler http.Handler

	// FunctionAuthToken guards the tool endpoints; empty disables auth.
	FunctionAuthToken  string
	CORSAllowedOrigins []string
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		if cfg.HealthHandler != nil {
			public.Get("/", cfg.HealthHandler.Status)
			public.Get("/health", cfg.HealthHandler.Status)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Tool endpoints called by the voice assistant.
	r.Group(func(tools chi.Router) {
		tools.Use(httpmiddleware.BearerAuth(cfg.FunctionAuthToken))
		if cfg.ToolsHandler != nil {
			tools.Post("/find-location", cfg.ToolsHandler.FindLocation)
			tools.Post("/get-locations", cfg.ToolsHandler.GetLocations)
			tools.Post("/book-appointment", cfg.ToolsHandler.BookAppointment)
		}
		if cfg.MCPHandler != nil {
			tools.Post("/mcp", cfg.MCPHandler.Handle)
		}
	})

	return r
}
