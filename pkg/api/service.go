package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethpandaops/injuryboard/pkg/api/handlers"
	"github.com/ethpandaops/injuryboard/pkg/session"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/sirupsen/logrus"
)

// Service defines the API service interface
type Service interface {
	Start(ctx context.Context) error
	Stop() error
}

type service struct {
	app             *fiber.App
	server          *http.Server
	config          *Config
	dashboard       handlers.Dashboard
	sessions        *session.Store
	cookieName      string
	frontendHandler http.Handler
	log             logrus.FieldLogger
}

// NewService creates a new API and frontend service
func NewService(cfg *Config, d handlers.Dashboard, sessions *session.Store, cookieName string, frontendHandler http.Handler, log logrus.FieldLogger) Service {
	return &service{
		config:          cfg,
		dashboard:       d,
		sessions:        sessions,
		cookieName:      cookieName,
		frontendHandler: frontendHandler,
		log:             log.WithField("service", "api"),
	}
}

// newApp builds the fiber app with every route mounted
func (s *service) newApp(ctx context.Context) (*fiber.App, error) {
	doc, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}

	// Create Fiber app with custom error handler
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		AppName:      "injuryboard",
	})

	// Setup middleware
	setupMiddleware(app, s.config)

	server := handlers.NewServer(s.dashboard, s.sessions, s.cookieName, s.log)

	// Create API v1 group
	apiV1 := app.Group("/api/v1")

	apiV1.Get("/openapi.yaml", func(c fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(openapiSpec)
	})

	server.Register(apiV1)

	s.log.WithFields(logrus.Fields{
		"title":   doc.Info.Title,
		"version": doc.Info.Version,
		"paths":   doc.Paths.Len(),
	}).Debug("Loaded OpenAPI spec")

	// Register frontend handler as fallback for non-API routes
	if s.frontendHandler != nil {
		app.Use(adaptor.HTTPHandler(s.frontendHandler))
	}

	return app, nil
}

// Start initializes and starts the API server with frontend integration
func (s *service) Start(ctx context.Context) error {
	app, err := s.newApp(ctx)
	if err != nil {
		return err
	}

	s.app = app

	// Create HTTP server with the Fiber app
	fiberHandler := adaptor.FiberApp(s.app)
	s.server = &http.Server{
		Addr:              s.config.Addr,
		Handler:           fiberHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		s.log.WithField("addr", s.config.Addr).Info("Starting API and frontend server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Server failed to start")
		}
	}()

	return nil
}

// Stop gracefully shuts down the API server
func (s *service) Stop() error {
	if s.server == nil {
		return nil
	}

	s.log.Info("Stopping API and frontend server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
