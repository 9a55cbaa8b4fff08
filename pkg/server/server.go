// Package server assembles the HTTP API
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/azalea/pkg/middleware"
	"github.com/Ramsey-B/azalea/pkg/routes/health"
	listingroutes "github.com/Ramsey-B/azalea/pkg/routes/listing"
	trendroutes "github.com/Ramsey-B/azalea/pkg/routes/trends"
	validationroutes "github.com/Ramsey-B/azalea/pkg/routes/validation"
)

// Config holds server settings
type Config struct {
	AppName string
	Port    int
}

// Server wraps the echo instance
type Server struct {
	echo   *echo.Echo
	config Config
	logger ectologger.Logger
}

// New builds the echo app with middleware and routes registered. The
// health checker is registered separately because it owns the
// readiness state.
func New(config Config, logger ectologger.Logger, checker *health.Checker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(otelecho.Middleware(config.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.Recover())
	e.HTTPErrorHandler = middleware.Error(logger)

	checker.RegisterRoutes(e)

	api := e.Group("/api/v1")
	listingroutes.Register(api.Group("/listings"))
	trendroutes.Register(api.Group("/trends"))
	validationroutes.Register(api.Group("/validate"))

	return &Server{
		echo:   e,
		config: config,
		logger: logger,
	}
}

// Echo exposes the underlying echo instance for tests
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.WithField("addr", addr).Info("HTTP server starting")

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
