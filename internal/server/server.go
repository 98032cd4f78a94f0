package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rshade/footprint/internal/chat"
	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/footprint"
)

const readHeaderTimeout = 5 * time.Second

// Server serves the HTTP API.
type Server struct {
	cfg     config.ServerConfig
	engine  *footprint.Engine
	summary *footprint.Engine
	chat    *chat.Service
	metrics *Metrics
	log     zerolog.Logger
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithChat enables the chat endpoints. Without it they answer 503.
func WithChat(svc *chat.Service) Option {
	return func(s *Server) { s.chat = svc }
}

// WithLogger sets the base logger for request logs.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMetrics shares a Metrics instance, e.g. with the cleanup job.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New builds a server around engine. The summary endpoint uses a second
// engine on the same store that reports percentages of the baseline.
func New(cfg config.ServerConfig, engine *footprint.Engine, opts ...Option) (*Server, error) {
	if engine == nil {
		return nil, errors.New("server: nil engine")
	}
	summary, err := footprint.NewEngine(engine.Store(), footprint.WithPercentMode(footprint.PercentOfBaseline))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		engine:  engine,
		summary: summary,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.router = s.routes()
	return s, nil
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = accessLog(h)
	h = requestID(s.log, h)
	h = handlers.CompressHandler(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(s.cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
	)(h)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: s.log}),
		handlers.PrintRecoveryStack(false),
	)(h)
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
