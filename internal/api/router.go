package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/IMMINJU/mario-chat/internal/api/middleware"
	"github.com/IMMINJU/mario-chat/internal/config"
	"github.com/IMMINJU/mario-chat/internal/handlers"
	"github.com/IMMINJU/mario-chat/internal/hub"
	"github.com/IMMINJU/mario-chat/internal/store"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(cfg *config.Config, logger zerolog.Logger, chatHub *hub.Hub, msgStore store.MessageStore) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(8 * 1024)) // 8KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - browser clients connect from the hosted frontend
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(chatHub, msgStore)
	ws := handlers.NewWebSocketHandler(chatHub, logger, cfg.AllowedOrigins)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Read-only polling surface
	r.Get("/", h.Status)
	r.Get("/healthz", h.Health)
	r.Get("/api/messages", h.GetMessages)
	r.Get("/api/rooms", h.ListRooms)
	r.Get("/api/users", h.ListUsers)

	// Real-time transport
	r.Get("/ws", ws.HandleWebSocket)

	return r
}
