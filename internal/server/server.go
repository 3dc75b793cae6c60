// Package server exposes schema listing and CSV validation over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/leapcheck/internal/history"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
	"golang.org/x/sync/errgroup"
)

// MaxBodyBytes bounds the size of an uploaded CSV body.
const MaxBodyBytes = 64 << 20

// Server is the validation API server.
type Server struct {
	resolver *schema.Resolver
	store    history.Store
	port     int
	logger   *slog.Logger
	now      func() time.Time
}

// Config holds configuration for the server. Store is optional; when nil
// runs are not recorded.
type Config struct {
	Resolver *schema.Resolver
	Store    history.Store
	Port     int
	Logger   *slog.Logger
	Clock    func() time.Time
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	s := &Server{
		resolver: cfg.Resolver,
		store:    cfg.Store,
		port:     cfg.Port,
		logger:   cfg.Logger,
		now:      cfg.Clock,
	}
	if s.resolver == nil {
		s.resolver = schema.NewResolver("")
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.requestLogger,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/schemas", func(r chi.Router) {
		r.Get("/", s.handleListSchemas)
		r.Post("/{datasetID}/validate", s.handleValidate)
	})
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting API server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
