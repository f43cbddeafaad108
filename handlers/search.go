package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"bdbus-backend/domain"
	"bdbus-backend/errors"
)

// Search resolves live seat availability for a journey and date: candidate
// buses must stop at both stations and be published, then the date's
// bookings are overlaid onto each bus's seat template. Read-only, the
// catalog is never written back.
func (h *Handler) Search(c *fiber.Ctx) error {
	type searchRequest struct {
		From string `json:"from"`
		To   string `json:"to"`
		Date string `json:"date"`
	}

	req := new(searchRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect search parameters: %v", err))
	}
	if req.From == "" || req.To == "" || req.Date == "" {
		return errors.RaiseBadRequestError(c, "from, to and date are required")
	}

	buses, dbErr := h.Store.Buses.FindForJourney(c.Context(), req.From, req.To)
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	bookings, dbErr := h.Store.Bookings.FindByDate(c.Context(), req.Date)
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	return c.JSON(domain.ResolveAvailability(buses, bookings))
}

// Stations lists every known stoppage.
func (h *Handler) Stations(c *fiber.Ctx) error {
	stations, dbErr := h.Store.Stations.All(c.Context())
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}
	return c.JSON(stations)
}

// Home returns the operators and routes overview for the landing page.
func (h *Handler) Home(c *fiber.Ctx) error {
	buses, dbErr := h.Store.Buses.All(c.Context())
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	operators := make([]string, 0, len(buses))
	routes := make([][]string, 0, len(buses))
	for _, bus := range buses {
		operators = append(operators, bus.Operator)
		routes = append(routes, bus.Route)
	}
	return c.JSON(fiber.Map{"operators": operators, "routes": routes})
}
