package router

import (
	"bdbus-backend/handlers"
	"bdbus-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/", logger.New())

	// public catalog and booking flow
	api.Get("/home", h.Home)
	api.Get("/stations", h.Stations)
	api.Post("/search", h.Search)
	api.Post("/payment-intent", h.PaymentIntent)
	api.Post("/check", h.SubmitBooking)
	api.Get("/verify-ticket/:email/:transactionNumber", h.VerifyTicket)

	// sessions and profiles
	api.Post("/token", h.Token)
	api.Post("/login", h.Login)
	api.Post("/users", h.CreateUser)
	api.Get("/user/:email", h.GetUser)
	api.Post("/updateProfile/:email", h.UpdateProfile)

	// collaborator relays
	api.Get("/sendOTP/:number", h.SendOTP)
	api.Get("/verifyOTP/:request_id/:code", h.VerifyOTP)
	api.Post("/contact", h.Contact)

	// operator dashboard
	admin := api.Group("/", middleware.Authorize())
	admin.Get("/busInfo/:email", h.OperatorBuses)
	admin.Patch("/bookings", h.OperatorBookings)
	admin.Post("/accountHistory/:email", h.AccountHistory)
	admin.Patch("/setBusAvailable/:busID", h.SetBusAvailable)
	admin.Post("/deleteBus", h.DeleteBus)
	admin.Post("/add-new-bus/:email", h.AddBus)
	admin.Post("/postEmail", h.ResendConfirmation)
	admin.Get("/getUsers/:email", h.GetUsers)
	admin.Post("/superAdmin/:email", h.GrantOperator)
	admin.Patch("/users/admin/:id", h.MakeUserAdmin)
}
