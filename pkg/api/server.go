/*
Yggdrasil REST API

This is the REST API for Yggdrasil, a persistent B-tree index manager.

Version: 1.0.0
Host: localhost:8080
BasePath: /api/v1

SecurityDefinitions:
  - ApiKeyAuth:
    type: apiKey
    in: header
    name: X-API-Key

swagger:meta
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ssargent/yggdrasil/pkg/index"
)

// Server holds the API server state
type Server struct {
	session *index.Session
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server over an open index session
func NewServer(session *index.Session, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		session: session,
		config:  config,
		metrics: metrics,
	}
}

// Routes builds the chi router with all middleware and endpoints
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		// Health check
		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Index operations
		r.Put("/keys/{key}", s.metrics.InstrumentHandler("PUT", "/api/v1/keys/{key}", s.handlePut))
		r.Get("/keys/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/keys/{key}", s.handleGet))
		r.Get("/keys", s.metrics.InstrumentHandler("GET", "/api/v1/keys", s.handleListKeys))

		// Diagnostics
		r.Get("/stats", s.metrics.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", s.config.Port)),
	))

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(session *index.Session, config ServerConfig) error {
	metrics := NewMetrics(prometheus.DefaultRegisterer)
	server := NewServer(session, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting Yggdrasil REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, server.Routes())
}
