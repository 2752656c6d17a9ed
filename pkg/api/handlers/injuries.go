package handlers

import (
	"strconv"

	"github.com/ethpandaops/injuryboard/pkg/dashboard"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/gofiber/fiber/v3"
)

// ListInjuries handles GET /api/v1/injuries
func (s *Server) ListInjuries(c fiber.Ctx) error {
	return s.renderTable(c, injuries.QueryInjuries)
}

// PreviewInjuries handles GET /api/v1/injuries/preview
func (s *Server) PreviewInjuries(c fiber.Ctx) error {
	return s.renderTable(c, injuries.QueryPreview)
}

// ListInjuriesWithTeams handles GET /api/v1/injuries/teams
func (s *Server) ListInjuriesWithTeams(c fiber.Ctx) error {
	return s.renderTable(c, injuries.QueryTeams)
}

func (s *Server) renderTable(c fiber.Ctx, q injuries.Query) error {
	distinct := false

	if raw := c.Query("distinct"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return ErrInvalidDistinct
		}

		distinct = v
	}

	t, err := s.dashboard.Table(c.Context(), q, distinct)
	if err != nil {
		s.log.WithError(err).WithField("query", q).Warn("Failed to load table")
		return toFiberError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dashboard.NewTableView(dashboard.TableTitle(q), t))
}
