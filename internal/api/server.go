package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/falcondocs/internal/config"
	"github.com/dgallion1/falcondocs/internal/doctree"
	"github.com/dgallion1/falcondocs/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DocsSource returns the raw upstream documentation document.
type DocsSource interface {
	Raw(ctx context.Context) ([]byte, error)
}

// DocsLoader returns the decoded document, or an empty one and false when
// the fetch failed.
type DocsLoader interface {
	Load(ctx context.Context) (doctree.Document, bool)
}

// Server is the HTTP server for the documentation site.
type Server struct {
	router chi.Router
	source DocsSource
	loader DocsLoader
	pages  *render.Renderer
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(source DocsSource, loader DocsLoader, pages *render.Renderer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		source: source,
		loader: loader,
		pages:  pages,
		log:    log,
		cfg:    cfg,
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

	r.NotFound(s.handleNotFound)

	r.Get("/health", s.handleHealth)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Handle("/static/*", http.StripPrefix("/static", s.pages.Static()))

	// Pages.
	r.Get("/", s.handleLanding)
	r.Get("/docs", s.handleGuide)
	r.Get("/reference", s.handleReference)
	r.Get("/reference/content", s.handleReferenceContent)

	// JSON API.
	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(s.cfg.APIRate, s.cfg.APIBurst))

		r.Get("/docs", s.handleDocs)
	})

	s.router = r
}

// Route is one registered method and pattern.
type Route struct {
	Method  string
	Pattern string
}

// Routes lists the registered routes in registration order.
func (s *Server) Routes() ([]Route, error) {
	var routes []Route
	err := chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, Route{Method: method, Pattern: route})
		return nil
	})
	return routes, err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
