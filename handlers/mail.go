package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"bdbus-backend/config"
	"bdbus-backend/database"
	"bdbus-backend/errors"
)

// Contact forwards a contact-form message to the support mailbox. Mail is
// fire-and-forget: a send failure is logged, not returned to the client.
func (h *Handler) Contact(c *fiber.Ctx) error {
	type contactRequest struct {
		MessageData struct {
			Name    string `json:"name"`
			Email   string `json:"email"`
			Message string `json:"message"`
		} `json:"messageData"`
	}

	req := new(contactRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect contact parameters: %v", err))
	}

	supportMail, envErr := config.GetSecret("SMTP_MAIL")
	if envErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprint(envErr))
	}

	body := fmt.Sprintf(`<div>
    <b>Hey there!</b>
    <p>I am %s,</p>
    <p><b>Email: </b>%s</p>
    <p><b>Message: </b>%s</p>
    </div>`, req.MessageData.Name, req.MessageData.Email, req.MessageData.Message)

	subject := fmt.Sprintf("New message from %s", req.MessageData.Name)
	if err := h.Mail.Send(c.Context(), supportMail, subject, body); err != nil {
		logrus.WithError(err).Warn("contact mail send failed")
	}

	return c.JSON(req.MessageData)
}

// ResendConfirmation re-runs the ticket issuance for an existing booking,
// for when the first confirmation mail never arrived.
func (h *Handler) ResendConfirmation(c *fiber.Ctx) error {
	type resendRequest struct {
		TransactionID string `json:"transactionID"`
	}

	req := new(resendRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect resend parameters: %v", err))
	}

	booking, dbErr := h.Store.Bookings.GetByTransactionID(c.Context(), req.TransactionID)
	if dbErr == database.ErrNotFound {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("no booking for transaction %v", req.TransactionID))
	}
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	h.Issuer.IssueAsync(booking)
	return c.JSON(fiber.Map{"status": "success", "message": "confirmation mail scheduled", "data": req.TransactionID})
}
