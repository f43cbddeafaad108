package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bdbus-backend/config"
	"bdbus-backend/database"
	"bdbus-backend/errors"
	"bdbus-backend/model"
)

// PaymentIntent quotes a fare: the payment collaborator creates an intent
// for fare*100 minor units and the client secret is forwarded unmodified.
// Nothing is persisted at this step.
func (h *Handler) PaymentIntent(c *fiber.Ctx) error {
	type intentRequest struct {
		Fare float64 `json:"fare"`
	}

	req := new(intentRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect payment parameters: %v", err))
	}
	if req.Fare <= 0 {
		return errors.RaiseBadRequestError(c, "fare must be positive")
	}

	amount := int64(req.Fare * 100)
	clientSecret, err := h.Payment.CreateIntent(c.Context(), amount, config.PAYMENT_CURRENCY)
	if err != nil {
		return errors.RaiseCollaboratorError(c, fmt.Sprintf("payment gateway error: %v", err))
	}

	return c.JSON(fiber.Map{"clientSecret": clientSecret})
}

// SubmitBooking persists the booking for a paid transaction. The insert is
// the only durable write of the pipeline and is all-or-nothing: a reused
// transaction id or an already-taken seat is rejected with a conflict, the
// two cases kept distinguishable so the client knows whether to retry
// payment or reselect seats. Ticket issuance is triggered afterwards and
// can never fail the booking.
func (h *Handler) SubmitBooking(c *fiber.Ctx) error {
	newBooking := new(model.Booking)
	if err := c.BodyParser(newBooking); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect booking parameters: %v", err))
	}
	if validationErr := validateBookingInput(*newBooking); validationErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprint(validationErr))
	}

	newBooking.Id = primitive.NewObjectID()
	newBooking.BookedAt = time.Now().Format(time.RFC3339)

	insertErr := h.Store.Bookings.Insert(c.Context(), *newBooking)
	if insertErr == database.ErrDuplicateTransaction {
		return errors.RaiseConflictError(c, "duplicate transaction",
			fmt.Sprintf("a booking for transaction %v already exists", newBooking.TransactionID))
	}
	if insertErr == database.ErrSeatConflict {
		return errors.RaiseConflictError(c, "seat conflict",
			"one or more of the selected seats were just booked, please reselect")
	}
	if insertErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("db error while inserting booking: %v", insertErr))
	}

	h.Issuer.IssueAsync(*newBooking)

	bookingJson, err := json.MarshalIndent(newBooking, "", "	")
	if err != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("json serialization error: %v", err))
	}
	return c.SendString(string(bookingJson))
}

// VerifyTicket fetches one booking by transaction id, or, when the id is
// the literal "false", lists the passenger's own bookings with the same
// count/pagination contract as the operator listing.
func (h *Handler) VerifyTicket(c *fiber.Ctx) error {
	email := c.Params("email")
	transactionID := c.Params("transactionNumber")

	if transactionID == "false" {
		if c.Query("count") == "true" {
			count, dbErr := h.Store.Bookings.CountByPassenger(c.Context(), email)
			if dbErr != nil {
				return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
			}
			return c.JSON(fiber.Map{"count": count})
		}

		page, pageErr := pageFromQuery(c, "page")
		if pageErr != nil {
			return errors.RaiseBadRequestError(c, fmt.Sprint(pageErr))
		}

		bookings, dbErr := h.Store.Bookings.FindByPassenger(c.Context(), email, page)
		if dbErr != nil {
			return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
		}
		return c.JSON(bookings)
	}

	booking, dbErr := h.Store.Bookings.GetByTransactionID(c.Context(), transactionID)
	if dbErr == database.ErrNotFound {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("no booking for transaction %v", transactionID))
	}
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}
	return c.JSON(booking)
}

func validateBookingInput(booking model.Booking) error {
	if booking.TransactionID == "" {
		return fmt.Errorf("transaction id is missing")
	}
	if booking.BusData.Bus.Id.IsZero() {
		return fmt.Errorf("bus reference is missing")
	}
	if booking.BusData.Date == "" {
		return fmt.Errorf("travel date is missing")
	}
	if len(booking.Persons) == 0 {
		return fmt.Errorf("booking has no passengers")
	}
	seen := make(map[int]bool, len(booking.Persons))
	for _, person := range booking.Persons {
		if seen[person.SeatNo] {
			return fmt.Errorf("seat %v is assigned twice", person.SeatNo)
		}
		seen[person.SeatNo] = true
	}
	return nil
}
