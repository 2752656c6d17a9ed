package handlers

import (
	"github.com/ethpandaops/injuryboard/pkg/period"
	"github.com/ethpandaops/injuryboard/pkg/session"
	"github.com/gofiber/fiber/v3"
)

// selection returns the session selection with any query parameter overrides
// applied. Overrides are not stored.
func (s *Server) selection(c fiber.Ctx) (session.Selection, error) {
	_, sel := s.resolveSession(c)

	if raw := c.Query("grouping"); raw != "" {
		g, err := session.ParseGrouping(raw)
		if err != nil {
			return sel, toFiberError(err)
		}

		sel.Grouping = g
	}

	if raw := c.Query("granularity"); raw != "" {
		g, err := period.ParseGranularity(raw)
		if err != nil {
			return sel, toFiberError(err)
		}

		sel.Granularity = g
	}

	start, end := sel.Start, sel.End

	if raw := c.Query("start"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			return sel, err
		}

		start = d
	}

	if raw := c.Query("end"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			return sel, err
		}

		end = d
	}

	if err := sel.SetRange(start, end); err != nil {
		return sel, toFiberError(err)
	}

	return sel, nil
}

// GetView handles GET /api/v1/view
func (s *Server) GetView(c fiber.Ctx) error {
	sel, err := s.selection(c)
	if err != nil {
		return err
	}

	view, err := s.dashboard.View(c.Context(), sel)
	if err != nil {
		s.log.WithError(err).WithField("grouping", sel.Grouping).Warn("Failed to build view")
		return toFiberError(err)
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

// GetPeriods handles GET /api/v1/periods
func (s *Server) GetPeriods(c fiber.Ctx) error {
	sel, err := s.selection(c)
	if err != nil {
		return err
	}

	view, err := s.dashboard.Periods(c.Context(), sel)
	if err != nil {
		s.log.WithError(err).WithField("granularity", sel.Granularity).Warn("Failed to build periods")
		return toFiberError(err)
	}

	return c.Status(fiber.StatusOK).JSON(view)
}
