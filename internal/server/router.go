package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cloo-solutions/folio/internal/api"
	"github.com/cloo-solutions/folio/internal/api/handlers"
	"github.com/cloo-solutions/folio/internal/api/middleware"
)

// DefaultMaxBodyBytes bounds request bodies when RouterConfig leaves it unset.
const DefaultMaxBodyBytes int64 = 64 * 1024

type RouterConfig struct {
	Logger        *zap.Logger
	MaxBodyBytes  int64
	ChatHandler   *handlers.ChatHandler
	CorpusHandler *handlers.CorpusHandler
	ResumeHandler *handlers.ResumeHandler
	HealthHandler *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.AccessLog)
	r.Use(middleware.Recover)
	r.Use(middleware.Sentry)
	r.Use(middleware.MaxBodyBytes(maxBody))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", cfg.HealthHandler.Health)

	r.Post("/chat", cfg.ChatHandler.Chat)
	r.Post("/api/adam", cfg.ChatHandler.Chat)

	r.Route("/corpus", func(r chi.Router) {
		r.Get("/experiences", cfg.CorpusHandler.ListExperiences)
		r.Get("/experiences/{id}", cfg.CorpusHandler.GetExperience)
		r.Get("/projects", cfg.CorpusHandler.ListProjects)
		r.Get("/projects/{id}", cfg.CorpusHandler.GetProject)
		r.Get("/education", cfg.CorpusHandler.ListEducation)
		r.Get("/education/{id}", cfg.CorpusHandler.GetEducation)
	})

	r.Post("/resume", cfg.ResumeHandler.Generate)
	r.Post("/api/resume", cfg.ResumeHandler.Generate)
	r.Get("/resume.pdf", cfg.ResumeHandler.Download)

	return r
}
