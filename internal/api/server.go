// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/exa-laboratories/antennacheck/internal/checker"
	"github.com/exa-laboratories/antennacheck/internal/logging"
)

// ServerConfig holds HTTP server timeouts, defaulted to Slowloris-
// hardened values: this server only ever serves a handful of small,
// bounded JSON payloads, so there's no reason to run it any less
// defensively.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// DefaultServerConfig returns the hardened server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Server serves the read-only violation API plus Prometheus metrics for
// one checker run.
type Server struct {
	http       *http.Server
	violations *ViolationHandlers
	logger     *logging.Logger
}

// NewServer builds a Server bound to addr, serving result's violations
// and whatever metrics have been registered with the default Prometheus
// registry.
func NewServer(addr string, result checker.AllNetsResult, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	violations := NewViolationHandlers(result)

	router := mux.NewRouter()
	violations.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	cfg := DefaultServerConfig()
	return &Server{
		violations: violations,
		logger:     logger,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Replace swaps in a newer run's result, e.g. after a periodic recheck.
func (s *Server) Replace(result checker.AllNetsResult) {
	s.violations.Replace(result)
}

// ListenAndServe blocks serving the API until the server is shut down or
// fails to bind.
func (s *Server) ListenAndServe() error {
	s.logger.Info("api server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
