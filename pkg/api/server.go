// Package api serves the latest replay scan over HTTP.
//
// All routes live under /api/v1 and answer with the APIResponse envelope.
// /metrics exposes Prometheus metrics and is never behind the API key.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the route tree for s.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Get("/buckets", s.metrics.InstrumentHandler("GET", "/api/v1/buckets", s.handleBuckets))
		r.Get("/buckets/{bucket}", s.metrics.InstrumentHandler("GET", "/api/v1/buckets/{bucket}", s.handleBucket))
		r.Get("/failures", s.metrics.InstrumentHandler("GET", "/api/v1/failures", s.handleFailures))

		r.Post("/rescan", s.metrics.InstrumentHandler("POST", "/api/v1/rescan", s.handleRescan))
	})

	return r
}

// StartServer runs an initial scan and serves the API until ctx is done.
func StartServer(ctx context.Context, library ReplayLibrary, names NameResolver, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(library, names, config, metrics)

	res, err := library.Rescan(ctx)
	if err != nil {
		metrics.RecordScanFailure()
		return errors.Wrap(err, "initial scan")
	}
	metrics.RecordScan(res)
	log.Printf("[api] initial scan %s: %d replays, %d failures", res.ID, res.Store.Len(), len(res.Failures))

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	httpServer := &http.Server{Addr: addr, Handler: NewRouter(server)}

	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	fmt.Printf("Starting tgmr API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
