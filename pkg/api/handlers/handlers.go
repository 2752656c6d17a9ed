// Package handlers implements the request handlers of the injuryboard API.
package handlers

import (
	"context"

	"github.com/ethpandaops/injuryboard/pkg/dashboard"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/session"
	"github.com/ethpandaops/injuryboard/pkg/table"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// Dashboard is the view pipeline behind the handlers
type Dashboard interface {
	Table(ctx context.Context, q injuries.Query, distinct bool) (*table.Table, error)
	View(ctx context.Context, sel session.Selection) (*dashboard.View, error)
	Periods(ctx context.Context, sel session.Selection) (*dashboard.PeriodView, error)
}

// Server holds the handler dependencies
type Server struct {
	dashboard  Dashboard
	sessions   *session.Store
	cookieName string
	log        logrus.FieldLogger
}

// NewServer creates a new API server instance
func NewServer(d Dashboard, sessions *session.Store, cookieName string, log logrus.FieldLogger) *Server {
	return &Server{
		dashboard:  d,
		sessions:   sessions,
		cookieName: cookieName,
		log:        log.WithField("component", "api.handlers"),
	}
}

// Register mounts every route on router, usually the /api/v1 group
func (s *Server) Register(router fiber.Router) {
	router.Get("/injuries", s.ListInjuries)
	router.Get("/injuries/preview", s.PreviewInjuries)
	router.Get("/injuries/teams", s.ListInjuriesWithTeams)

	router.Get("/session", s.GetSession)
	router.Post("/session/grouping/:grouping", s.ToggleGrouping)
	router.Put("/session/granularity/:granularity", s.SetGranularity)
	router.Put("/session/range", s.SetRange)

	router.Get("/view", s.GetView)
	router.Get("/periods", s.GetPeriods)
}
