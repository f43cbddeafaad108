package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bdbus-backend/database"
	"bdbus-backend/errors"
	"bdbus-backend/model"
)

// operatorScope resolves the admin user behind the request and returns the
// operator name their queries are restricted to.
func (h *Handler) operatorScope(c *fiber.Ctx, email string) (string, error) {
	user, dbErr := h.Store.Users.GetByEmail(c.Context(), email)
	if dbErr == database.ErrNotFound {
		return "", errors.RaisePermissionsError(c, fmt.Sprintf("no user with email %v", email))
	}
	if dbErr != nil {
		return "", errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}
	if !user.IsAdmin() {
		return "", errors.RaisePermissionsError(c, "user has no operator scope")
	}
	return user.OperatorName, nil
}

// OperatorBuses lists every bus registered by the caller's operator.
func (h *Handler) OperatorBuses(c *fiber.Ctx) error {
	operator, scopeErr := h.operatorScope(c, c.Params("email"))
	if scopeErr != nil {
		return scopeErr
	}

	buses, dbErr := h.Store.Buses.FindByOperator(c.Context(), operator)
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}
	return c.JSON(buses)
}

// OperatorBookings lists an operator's bookings, optionally narrowed by an
// exact-match search over bus name, travel date, passenger email or phone.
// With count=true only the total matching count is returned; it always
// equals the size of the full unpaginated result for the same filter.
func (h *Handler) OperatorBookings(c *fiber.Ctx) error {
	type bookingsRequest struct {
		Operator string `json:"operator"`
		Query    struct {
			Filter     bool   `json:"filter"`
			SearchText string `json:"searchText"`
		} `json:"query"`
	}

	req := new(bookingsRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect listing parameters: %v", err))
	}
	if req.Operator == "" {
		return errors.RaiseBadRequestError(c, "operator is required")
	}

	filter := database.BookingFilter{Operator: req.Operator}
	if req.Query.Filter {
		filter.SearchText = req.Query.SearchText
	}

	if c.Query("count") == "true" {
		count, dbErr := h.Store.Bookings.CountByOperator(c.Context(), filter)
		if dbErr != nil {
			return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
		}
		return c.JSON(fiber.Map{"count": count})
	}

	page, pageErr := pageFromQuery(c, "currentPage")
	if pageErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprint(pageErr))
	}

	bookings, dbErr := h.Store.Bookings.FindByOperator(c.Context(), filter, page)
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}
	return c.JSON(bookings)
}

// AccountHistory returns the operator's buses (optionally filtered by the
// published flag and bus name) and their bookings over an inclusive travel
// date range. An open range bound defaults to the current date.
func (h *Handler) AccountHistory(c *fiber.Ctx) error {
	type historyRequest struct {
		Query struct {
			Availability string `json:"availability"`
			SelectedBus  string `json:"selectedBus"`
			FromDate     string `json:"fromDate"`
			ToDate       string `json:"toDate"`
		} `json:"query"`
	}

	operator, scopeErr := h.operatorScope(c, c.Params("email"))
	if scopeErr != nil {
		return scopeErr
	}

	req := new(historyRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect history parameters: %v", err))
	}

	var buses []model.Bus
	var dbErr error
	if req.Query.Availability == "true" || req.Query.Availability == "false" {
		buses, dbErr = h.Store.Buses.FindByOperatorAndAvailability(c.Context(), operator,
			req.Query.Availability == "true")
	} else {
		buses, dbErr = h.Store.Buses.FindByOperator(c.Context(), operator)
	}
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	if req.Query.SelectedBus != "" && req.Query.SelectedBus != "All" {
		selected := []model.Bus{}
		for _, bus := range buses {
			if bus.Name == req.Query.SelectedBus {
				selected = append(selected, bus)
			}
		}
		buses = selected
	}

	filter := database.BookingFilter{Operator: operator}
	if req.Query.FromDate != "" || req.Query.ToDate != "" {
		currentDate := time.Now().Format("2006-01-02")
		filter.FromDate = req.Query.FromDate
		filter.ToDate = req.Query.ToDate
		if filter.FromDate == "" {
			filter.FromDate = currentDate
		}
		if filter.ToDate == "" {
			filter.ToDate = currentDate
		}
	}

	bookings, dbErr := h.Store.Bookings.FindByOperator(c.Context(), filter, database.Page{})
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	return c.JSON(fiber.Map{"busResult": buses, "bookings": bookings})
}

// SetBusAvailable sets the publish flag of one bus. Setting the same value
// twice is a no-op on the stored flag.
func (h *Handler) SetBusAvailable(c *fiber.Ctx) error {
	type availableRequest struct {
		Status bool `json:"status"`
	}

	busId, err := primitive.ObjectIDFromHex(c.Params("busID"))
	if err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("invalid bus id: %v", err))
	}

	req := new(availableRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect status parameters: %v", err))
	}

	updateErr := h.Store.Buses.SetAvailable(c.Context(), busId, req.Status)
	if updateErr == database.ErrNotFound {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("no bus with id %v", busId.Hex()))
	}
	if updateErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("db error while updating bus: %v", updateErr))
	}

	return c.JSON(fiber.Map{"status": "success", "message": "bus availability updated", "data": req.Status})
}

// DeleteBus hard-deletes one bus after an existence check.
func (h *Handler) DeleteBus(c *fiber.Ctx) error {
	type deleteRequest struct {
		BusID string `json:"busID"`
	}

	req := new(deleteRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect delete parameters: %v", err))
	}

	busId, err := primitive.ObjectIDFromHex(req.BusID)
	if err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("invalid bus id: %v", err))
	}

	deleteErr := h.Store.Buses.Delete(c.Context(), busId)
	if deleteErr == database.ErrNotFound {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("no bus with id %v", busId.Hex()))
	}
	if deleteErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("db error while deleting bus: %v", deleteErr))
	}

	return c.JSON(fiber.Map{"status": "success", "message": "bus deleted", "data": busId.Hex()})
}

// AddBus registers a new bus for the caller's operator and inserts its
// stations, deduplicated by name.
func (h *Handler) AddBus(c *fiber.Ctx) error {
	type addBusRequest struct {
		BusInfo  model.Bus       `json:"busInfo"`
		Stations []model.Station `json:"stations"`
	}

	operator, scopeErr := h.operatorScope(c, c.Params("email"))
	if scopeErr != nil {
		return scopeErr
	}

	req := new(addBusRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect bus parameters: %v", err))
	}

	stationInserted := false
	for _, station := range req.Stations {
		inserted, dbErr := h.Store.Stations.InsertIfAbsent(c.Context(), station)
		if dbErr != nil {
			return errors.RaiseInternalServerError(c, fmt.Sprintf("db error while inserting station: %v", dbErr))
		}
		if inserted {
			stationInserted = true
		}
	}

	bus := req.BusInfo
	bus.Operator = operator
	busId, dbErr := h.Store.Buses.Insert(c.Context(), bus)
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("db error while inserting bus: %v", dbErr))
	}

	return c.JSON(fiber.Map{"busId": busId.Hex(), "stationInserted": stationInserted})
}
