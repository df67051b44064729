// Package http exposes the shortener over HTTP: link creation, redirects,
// click statistics and a health probe.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
)

// ReservedPaths are top-level path segments owned by the router. They must
// never be handed out as short codes.
var ReservedPaths = []string{"health", "ping", "shorturls", "swagger", "docs"}

// NewRouter builds the chi router. baseURL prefixes every returned short link.
func NewRouter(logger *httplog.Logger, useCase urlUseCase, baseURL string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	h := newURLHandler(useCase, validator.New(), baseURL)

	r.Get("/", handleIndex)
	r.Get("/ping", handlePing)
	r.Get("/health", h.health)

	r.Route("/shorturls", func(r chi.Router) {
		r.Post("/", h.createShortURL)
		r.Get("/{shortCode}", h.getStats)
	})

	r.Get("/{shortCode}", h.redirect)

	return r
}
