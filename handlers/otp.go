package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"bdbus-backend/errors"
)

// SendOTP starts a phone-number verification and returns the request id
// the client needs for the check step.
func (h *Handler) SendOTP(c *fiber.Ctx) error {
	number := c.Params("number")
	if number == "" {
		return errors.RaiseBadRequestError(c, "phone number is required")
	}

	requestId, err := h.OTP.StartVerification(c.Context(), number)
	if err != nil {
		return errors.RaiseCollaboratorError(c, fmt.Sprintf("otp service error: %v", err))
	}
	return c.JSON(fiber.Map{"request_id": requestId})
}

// VerifyOTP checks a verification code against a previously started
// verification.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	requestId := c.Params("request_id")
	code := c.Params("code")

	if err := h.OTP.CheckVerification(c.Context(), requestId, code); err != nil {
		return c.JSON(fiber.Map{"status": false, "message": fmt.Sprint(err)})
	}
	return c.JSON(fiber.Map{"status": true})
}
