// Package server exposes the playground over HTTP: a test proxy that executes
// request descriptions, the collection export and the loaded catalog.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/junnyboy28/InteGreatai/internal/collection"
	"github.com/junnyboy28/InteGreatai/internal/executor"
	"github.com/junnyboy28/InteGreatai/internal/logger"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 10 * time.Second

// Options configures a Server
type Options struct {
	Addr      string
	Executor  *executor.Executor
	Exporter  *collection.Exporter
	Catalog   *types.AnalysisResult
	RateLimit float64 // test proxy requests per second, 0 disables limiting
	RateBurst int
	Logger    *logger.Logger
}

// Server is the HTTP API
type Server struct {
	addr     string
	exec     *executor.Executor
	exporter *collection.Exporter
	catalog  *types.AnalysisResult
	limiter  *rate.Limiter
	log      *logger.Logger

	httpServer *http.Server
}

// New creates a server; call Run to serve
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	exporter := opts.Exporter
	if exporter == nil {
		exporter = collection.NewExporter()
	}

	s := &Server{
		addr:     opts.Addr,
		exec:     opts.Executor,
		exporter: exporter,
		catalog:  opts.Catalog,
		log:      log.WithComponent("server"),
	}

	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("POST /api/test-endpoint", rateLimit(s.limiter, http.HandlerFunc(s.handleTestEndpoint)))
	mux.HandleFunc("POST /api/export-collection", s.handleExportCollection)
	mux.HandleFunc("GET /api/endpoints", s.handleEndpoints)

	return cors(requestLogger(s.log, mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run over an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Infof("listening on %s", listener.Addr())
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
