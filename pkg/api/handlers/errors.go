package handlers

import (
	"errors"

	"github.com/ethpandaops/injuryboard/pkg/aggregate"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/period"
	"github.com/ethpandaops/injuryboard/pkg/querycache"
	"github.com/ethpandaops/injuryboard/pkg/session"
	"github.com/gofiber/fiber/v3"
)

// ErrInvalidDistinct is returned when the distinct parameter is not a boolean
var ErrInvalidDistinct = fiber.NewError(fiber.StatusBadRequest, "distinct must be true or false")

// ErrInvalidDate is returned when a range bound is not a YYYY-MM-DD date
var ErrInvalidDate = fiber.NewError(fiber.StatusBadRequest, "dates must be formatted as YYYY-MM-DD")

// ErrWarehouseUnavailable is returned when the warehouse query fails
var ErrWarehouseUnavailable = fiber.NewError(fiber.StatusBadGateway, "injuries warehouse query failed")

// toFiberError maps domain errors to HTTP errors. Unknown errors are returned
// unchanged and end up as 500.
func toFiberError(err error) error {
	var fiberErr *fiber.Error

	switch {
	case err == nil:
		return nil
	case errors.As(err, &fiberErr):
		return err
	case querycache.IsRemoteQueryError(err):
		return ErrWarehouseUnavailable
	case errors.Is(err, session.ErrUnknownGrouping),
		errors.Is(err, session.ErrInvalidRange),
		errors.Is(err, period.ErrUnknownGranularity),
		errors.Is(err, period.ErrInvalidBounds),
		errors.Is(err, aggregate.ErrUnknownDimension),
		errors.Is(err, injuries.ErrUnknownQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
