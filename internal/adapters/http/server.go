// Package http is the service's HTTP surface: the gin engine, its routes
// and the server that runs them.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/vows/internal/platform/config"
)

// Server owns the gin engine and the listener it is served on.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	logger *slog.Logger
	ln     net.Listener
}

// New builds a server from cfg. Routes are attached to Engine before Start.
// Request bodies above cfg.MaxRequestSize fail to read.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	return &Server{
		engine: engine,
		logger: logger,
		srv: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      http.MaxBytesHandler(engine, cfg.MaxRequestSize),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler is the engine as the server sees it, body limit included.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Addr is the bound address once Start has succeeded, the configured one
// before.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}

	return s.srv.Addr
}

// Start binds the listener and serves in the background. Bind failures are
// returned directly; later serve failures arrive on the channel, which is
// closed when serving stops.
func (s *Server) Start() (<-chan error, error) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}

	s.ln = ln
	errCh := make(chan error, 1)

	s.logger.Info("starting HTTP server",
		slog.String("addr", s.Addr()),
		slog.Duration("write_timeout", s.srv.WriteTimeout))

	go func() {
		defer close(errCh)

		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	return errCh, nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")

	return nil
}
