// Package api provides the HTTP JSON API for the FAQ agent.
//
// Endpoints:
//
//	POST /api/v1/faq           →  genkit.Handler(faqpilot/faq Flow)
//	POST /api/v1/admin/reload  →  swap in a fresh taxonomy document
//	GET  /api/v1/directory     →  current classification directory
//	GET  /health               →  liveness probe
//	GET  /ready                →  readiness probe
//
// Health probes sit outside the middleware stack so orchestrator checks
// are never rate limited.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/firebase/genkit/go/genkit"

	"github.com/faqpilot/faqpilot/internal/agent"
	"github.com/faqpilot/faqpilot/internal/log"
	"github.com/faqpilot/faqpilot/internal/taxonomy"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = ":8080"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout prevents Slowloris-style header dribbling.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is generous because a FAQ request makes two model calls.
	WriteTimeout = 120 * time.Second

	// IdleTimeout bounds keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      log.Logger      // optional: defaults to slog.Default()
	Flow        *agent.Flow     // required: the FAQ pipeline flow
	Store       *taxonomy.Store // required: backs reload and directory
	CORSOrigins []string        // allowed origins for CORS
	TrustProxy  bool            // trust X-Real-IP/X-Forwarded-For (behind reverse proxy)
	RateRPS     float64         // per-IP refill rate (0 = default 10/s)
	RateBurst   int             // per-IP burst size (0 = default 20)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Flow == nil {
		return nil, errors.New("flow is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("taxonomy store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	th := &taxonomyHandler{store: cfg.Store, logger: logger}

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/faq", genkit.Handler(cfg.Flow))
	mux.HandleFunc("POST /api/v1/admin/reload", th.reload)
	mux.HandleFunc("GET /api/v1/directory", th.directory)

	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 20
	}
	rl := newRateLimiter(rps, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must precede Logging so request_id appears in log attributes.
	// CORS must precede RateLimit so preflight OPTIONS gets proper headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		handler.ServeHTTP(w, r)
	})

	// Top-level mux keeps health probes outside the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Store))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
