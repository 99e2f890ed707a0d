package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"ConversationViewer/internal/config"
	"ConversationViewer/internal/logging"
	"ConversationViewer/internal/ports"
)

const defaultShutdownTimeout = 10 * time.Second

// Server owns the echo instance and its lifecycle.
type Server struct {
	echo            *echo.Echo
	addr            string
	shutdownTimeout time.Duration
	limiter         *RateLimiter
	logger          *slog.Logger
}

// NewServer registers routes and middleware.
func NewServer(cfg config.ServerConfig, handler *Handler, verifier ports.TokenVerifier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(AccessLog(logger))

	e.GET("/healthz", handler.Health)

	api := e.Group("/api", RequireBearer(verifier))
	api.GET("/conversations", handler.ListConversations)
	api.GET("/conversations/:id", handler.GetConversation)
	api.POST("/init-user", handler.InitUser)

	var limiter *RateLimiter
	generate := []echo.MiddlewareFunc{}
	if cfg.RateLimit > 0 {
		limiter = NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
		generate = append(generate, limiter.Middleware())
	}
	api.POST("/conversations/:id/summarize", handler.Summarize, generate...)
	api.POST("/conversations/:id/feedback", handler.Feedback, generate...)
	api.POST("/conversations/:id/news", handler.News, generate...)

	timeout := cfg.ShutdownTimeout.Std()
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &Server{
		echo:            e,
		addr:            cfg.Addr,
		shutdownTimeout: timeout,
		limiter:         limiter,
		logger:          logger,
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
