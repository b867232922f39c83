package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes caps the size of a render request.
const maxBodyBytes = 64 << 10

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)
	r.Get("/templates", s.handleTemplates)
	r.Get("/stats", s.handleStats)
	r.With(middleware.AllowContentType("application/json")).Post("/render", s.handleRender)

	return r
}
