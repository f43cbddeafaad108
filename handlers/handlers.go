package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bdbus-backend/database"
	"bdbus-backend/gateway"
	"bdbus-backend/ticket"
)

// Handler holds the stores and collaborators every route works against.
// Everything is injected, nothing is ambient.
type Handler struct {
	Store   *database.Store
	Payment gateway.PaymentClient
	Mail    gateway.MailClient
	OTP     gateway.OTPClient
	Issuer  *ticket.Issuer
}

func New(store *database.Store, payment gateway.PaymentClient, mail gateway.MailClient, otp gateway.OTPClient, issuer *ticket.Issuer) *Handler {
	return &Handler{
		Store:   store,
		Payment: payment,
		Mail:    mail,
		OTP:     otp,
		Issuer:  issuer,
	}
}

// pageFromQuery reads pagination from the query string. The page parameter
// name differs between the passenger and operator listings. Absent
// parameters mean an unpaginated listing; malformed or negative values are
// rejected.
func pageFromQuery(c *fiber.Ctx, pageParam string) (database.Page, error) {
	page := database.Page{}
	if raw := c.Query(pageParam); raw != "" {
		number, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || number < 0 {
			return database.Page{}, fmt.Errorf("invalid %v parameter: %v", pageParam, raw)
		}
		page.Number = number
	}
	if raw := c.Query("perPage"); raw != "" {
		perPage, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || perPage < 0 {
			return database.Page{}, fmt.Errorf("invalid perPage parameter: %v", raw)
		}
		page.PerPage = perPage
	}
	return page, nil
}
