// Package control exposes the running daemon over a loopback HTTP API:
// status, enable toggle, quit, and Prometheus metrics.
package control

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/daemon"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/monitoring"
)

const shutdownTimeout = 5 * time.Second

// Controller is the daemon surface served by the API.
type Controller interface {
	Status(ctx context.Context) (domain.DaemonStatus, error)
	ToggleEnabled(ctx context.Context) (bool, error)
}

var _ Controller = (*daemon.Daemon)(nil)

// ToggleResponse is the body of POST /toggle.
type ToggleResponse struct {
	Enabled bool `json:"enabled"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server wraps the gin router and its HTTP listener.
type Server struct {
	router     *gin.Engine
	controller Controller
	quit       func()
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewServer builds the router. quit is invoked by POST /quit; metrics may be nil.
func NewServer(controller Controller, quit func(), metrics *monitoring.Metrics, logger *zap.Logger) *Server {
	s := &Server{
		router:     gin.New(),
		controller: controller,
		quit:       quit,
		metrics:    metrics,
		logger:     logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(monitoring.Middleware(s.metrics))

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/status", s.handleStatus)
	s.router.POST("/toggle", s.handleToggle)
	s.router.POST("/quit", s.handleQuit)

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler returns the router, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on ln until ctx is canceled, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("control API listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("control API shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) handleStatus(c *gin.Context) {
	status, err := s.controller.Status(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handleToggle(c *gin.Context) {
	enabled, err := s.controller.ToggleEnabled(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{Enabled: enabled})
}

func (s *Server) handleQuit(c *gin.Context) {
	s.logger.Info("quit requested via control API")
	c.JSON(http.StatusAccepted, gin.H{"status": "stopping"})
	if s.quit != nil {
		s.quit()
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, daemon.ErrNotRunning) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}
