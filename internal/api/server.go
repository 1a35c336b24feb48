package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/mdoutline/internal/config"
	"github.com/dgallion1/mdoutline/internal/importer"
	"github.com/dgallion1/mdoutline/internal/session"
	"github.com/dgallion1/mdoutline/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for mdoutline.
type Server struct {
	router   chi.Router
	sessions *session.Manager
	importer importer.Importer
	stats    *stats.Recorder
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Manager, rec *stats.Recorder, log *slog.Logger, cfg config.Config) *Server {
	if rec == nil {
		rec = stats.NewRecorder(cfg.StatsWindow)
	}
	s := &Server{
		sessions: sessions,
		importer: importer.Importer{Marker: cfg.Marker(), PDFFallback: cfg.PDFFallbackPdftotext},
		stats:    rec,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/sessions", s.handleCreateSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/carets", s.handleSetCarets)
			r.Get("/outline", s.handleOutline)
			r.Get("/headline", s.handleHeadline)
			r.Get("/span", s.handleSpan)
			r.Post("/fold", s.handleFold)
			r.Post("/fold/global", s.handleGlobalFold)
			r.Post("/navigate", s.handleNavigate)
			r.Post("/level", s.handleLevel)
		})
		r.Get("/api/stats/ops", s.handleOpStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
