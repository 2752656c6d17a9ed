package engine

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ethpandaops/injuryboard/pkg/api"
	"github.com/ethpandaops/injuryboard/pkg/clickhouse"
	"github.com/ethpandaops/injuryboard/pkg/dashboard"
	"github.com/ethpandaops/injuryboard/pkg/frontend"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/observability"
	"github.com/ethpandaops/injuryboard/pkg/querycache"
	"github.com/ethpandaops/injuryboard/pkg/session"
	"github.com/sirupsen/logrus"
)

// cacheName labels the query cache in metrics
const cacheName = "injuries"

// Service encapsulates the dashboard application
type Service struct {
	config *Config
	log    logrus.FieldLogger

	chClient  clickhouse.ClientInterface
	queries   *injuries.Queries
	dashboard *dashboard.Service
	api       api.Service
}

// NewService creates the dashboard application from cfg
func NewService(log logrus.FieldLogger, cfg *Config) (*Service, error) {
	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	chClient, err := clickhouse.NewClient(log, &cfg.ClickHouse)
	if err != nil {
		return nil, fmt.Errorf("failed to setup ClickHouse client: %w", err)
	}

	cache, err := querycache.New(cacheName, chClient, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}

	queries, err := injuries.NewQueries(cfg.ClickHouse.MapDatabase(cfg.ClickHouse.Database), &cfg.Queries)
	if err != nil {
		return nil, fmt.Errorf("failed to render queries: %w", err)
	}

	dashboardService := dashboard.NewService(log, cache, queries)
	sessions := session.NewStore(&cfg.Session)

	// Create frontend handler if enabled
	var frontendHandler http.Handler
	if cfg.Frontend.Enabled {
		frontendHandler, err = frontend.NewHandler()
		if err != nil {
			return nil, fmt.Errorf("failed to create frontend handler: %w", err)
		}
	}

	apiService := api.NewService(&cfg.API, dashboardService, sessions, cfg.Session.CookieName, frontendHandler, log)

	return &Service{
		config:    cfg,
		log:       log.WithField("component", "engine"),
		chClient:  chClient,
		queries:   queries,
		dashboard: dashboardService,
		api:       apiService,
	}, nil
}

// Start checks the warehouse connection and starts the API
func (s *Service) Start(ctx context.Context) error {
	s.log.Info("Starting injuryboard...")

	// Start ClickHouse client
	if err := s.chClient.Start(); err != nil {
		observability.RecordError("engine", "clickhouse_start")
		return fmt.Errorf("failed to start ClickHouse client: %w", err)
	}

	// Start API and frontend service
	if err := s.api.Start(ctx); err != nil {
		return fmt.Errorf("failed to start API and frontend service: %w", err)
	}

	s.log.WithField("addr", s.config.API.Addr).Info("injuryboard started successfully")

	return nil
}

// Stop gracefully shuts down the application
func (s *Service) Stop() error {
	s.log.Info("Shutting down injuryboard...")

	if err := s.api.Stop(); err != nil {
		s.log.WithError(err).Error("Failed to stop API and frontend service")
	}

	// Stop ClickHouse client (critical - return error if fails)
	if err := s.chClient.Stop(); err != nil {
		s.log.WithError(err).Error("Failed to stop ClickHouse client")
		return err
	}

	return nil
}

// Ready reports whether the warehouse answers
func (s *Service) Ready(ctx context.Context) error {
	if _, err := s.chClient.Execute(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("clickhouse not ready: %w", err)
	}

	return nil
}

// Dashboard returns the view pipeline
func (s *Service) Dashboard() *dashboard.Service {
	return s.dashboard
}

// Queries returns the rendered dashboard queries
func (s *Service) Queries() *injuries.Queries {
	return s.queries
}

// Client returns the warehouse client
func (s *Service) Client() clickhouse.ClientInterface {
	return s.chClient
}
