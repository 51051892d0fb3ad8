package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kadrportal/media/pkg/session"
)

// RouterConfig carries the pieces the router wires together.
type RouterConfig struct {
	Session session.Config
	Log     *slog.Logger

	// StaticDir, when non-empty, is served under StaticPrefix so originals
	// and thumbnails are reachable at their descriptor paths. Leave empty
	// when an object store or CDN serves the artifacts.
	StaticDir    string
	StaticPrefix string
}

// NewRouter builds the HTTP surface: the upload staging API plus optional
// static serving of the stored artifacts.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(limitBody)
		r.Use(session.Middleware(cfg.Session))
		r.Use(h.requireAuth)

		r.Get("/csrf", h.CsrfToken)
		r.Get("/uploads", h.List)

		r.Group(func(r chi.Router) {
			r.Use(h.requireCSRF)
			r.Post("/upload", h.Upload)
			r.Post("/upload/delete", h.Delete)
		})
	})

	if cfg.StaticDir != "" {
		prefix := cfg.StaticPrefix
		if prefix == "" {
			prefix = "/uploads/listings/"
		}
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.StaticDir)))
		r.Method(http.MethodGet, prefix+"*", fs)
	}

	return r
}
