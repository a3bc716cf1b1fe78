package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tusabogados/intake-platform/internal/archive"
	httpmiddleware "github.com/tusabogados/intake-platform/internal/http/middleware"
	"github.com/tusabogados/intake-platform/internal/intake"
	"github.com/tusabogados/intake-platform/internal/narration"
	"github.com/tusabogados/intake-platform/internal/webchat"
	"github.com/tusabogados/intake-platform/pkg/logging"
)

// Config carries the handlers and settings the router wires together.
type Config struct {
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	AdminJWTSecret     string

	ChatHandler      *intake.Handler
	NarrationHandler *narration.Handler
	WebchatHandler   *webchat.Handler
	ArchiveHandler   *archive.Handler
}

// New builds the HTTP router for the intake API.
func New(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		if cfg.ChatHandler != nil {
			api.Post("/chat", cfg.ChatHandler.Chat)
			api.Get("/chat/{sessionID}/history", func(w http.ResponseWriter, r *http.Request) {
				cfg.ChatHandler.History(w, r, chi.URLParam(r, "sessionID"))
			})
		}
		if cfg.NarrationHandler != nil {
			api.Post("/narrate", cfg.NarrationHandler.Narrate)
		}
		if cfg.WebchatHandler != nil {
			api.Get("/webchat/history", cfg.WebchatHandler.HandleHistory)
		}
	})

	if cfg.WebchatHandler != nil {
		r.Get("/ws/chat", cfg.WebchatHandler.HandleWebSocket)
	}

	if cfg.ArchiveHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
			admin.Get("/intakes", cfg.ArchiveHandler.ListIntakes)
		})
	}

	return r
}
