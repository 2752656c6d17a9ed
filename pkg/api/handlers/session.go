package handlers

import (
	"time"

	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/period"
	"github.com/ethpandaops/injuryboard/pkg/session"
	"github.com/gofiber/fiber/v3"
)

// resolveSession returns the caller's session, issuing a cookie for new ones
func (s *Server) resolveSession(c fiber.Ctx) (string, session.Selection) {
	current := c.Cookies(s.cookieName)

	id, sel := s.sessions.Resolve(current)
	if id != current {
		c.Cookie(&fiber.Cookie{
			Name:     s.cookieName,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}

	return id, sel
}

func (s *Server) updateSession(c fiber.Ctx, fn func(*session.Selection) error) error {
	id, _ := s.resolveSession(c)

	sel, err := s.sessions.Update(id, fn)
	if err != nil {
		return toFiberError(err)
	}

	return c.Status(fiber.StatusOK).JSON(sel)
}

// GetSession handles GET /api/v1/session
func (s *Server) GetSession(c fiber.Ctx) error {
	_, sel := s.resolveSession(c)

	return c.Status(fiber.StatusOK).JSON(sel)
}

// ToggleGrouping handles POST /api/v1/session/grouping/:grouping
func (s *Server) ToggleGrouping(c fiber.Ctx) error {
	g, err := session.ParseGrouping(c.Params("grouping"))
	if err != nil {
		return toFiberError(err)
	}

	return s.updateSession(c, func(sel *session.Selection) error {
		sel.Toggle(g)
		return nil
	})
}

// SetGranularity handles PUT /api/v1/session/granularity/:granularity
func (s *Server) SetGranularity(c fiber.Ctx) error {
	g, err := period.ParseGranularity(c.Params("granularity"))
	if err != nil {
		return toFiberError(err)
	}

	return s.updateSession(c, func(sel *session.Selection) error {
		return sel.SetGranularity(g)
	})
}

// SetRange handles PUT /api/v1/session/range?start=&end=
func (s *Server) SetRange(c fiber.Ctx) error {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		return err
	}

	end, err := parseDate(c.Query("end"))
	if err != nil {
		return err
	}

	return s.updateSession(c, func(sel *session.Selection) error {
		return sel.SetRange(start, end)
	})
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse(injuries.DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	return d, nil
}
