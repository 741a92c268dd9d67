package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kiwari-pos/pricebook/internal/config"
	"github.com/kiwari-pos/pricebook/internal/handler"
	"github.com/kiwari-pos/pricebook/internal/ws"
)

// New creates a Chi router serving the configuration document, the Engine
// Room editor, live updates, and metrics.
func New(cfg *config.Config, configs handler.ConfigStore, pinHash []byte, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Storefront pages fetch /config.json from other origins
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Cache-Control"},
		MaxAge:         300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Live config notifications (public, read-only)
	r.Get("/ws/config", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, ws.TopicConfig, w, r)
	})

	engineHandler := handler.NewEngineHandler(configs, hub, pinHash, cfg.JWTSecret)
	engineHandler.RegisterRoutes(r)

	log.Println("Router initialized with all handlers")
	return r
}
