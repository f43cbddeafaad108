package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bdbus-backend/database"
	"bdbus-backend/gateway"
	"bdbus-backend/handlers"
	"bdbus-backend/model"
	"bdbus-backend/ticket"
)

type testEnv struct {
	app      *fiber.App
	buses    *database.MemoryBusStore
	bookings *database.MemoryBookingStore
	stations *database.MemoryStationStore
	users    *database.MemoryUserStore
	payment  *gateway.PaymentClientMock
	mail     *gateway.MailClientMock
	files    *gateway.FilesClientMock
	otp      *gateway.OTPClientMock
}

// newTestEnv wires the handlers against in-memory stores and collaborator
// mocks. The routes are registered without the jwt guard, auth middleware
// is not under test here.
func newTestEnv() *testEnv {
	env := &testEnv{
		buses:    database.NewMemoryBusStore(),
		bookings: database.NewMemoryBookingStore(),
		stations: database.NewMemoryStationStore(),
		users:    database.NewMemoryUserStore(),
		payment:  &gateway.PaymentClientMock{ClientSecret: "cs_test_secret"},
		mail:     &gateway.MailClientMock{},
		files:    &gateway.FilesClientMock{},
		otp:      &gateway.OTPClientMock{RequestId: "req-1"},
	}

	store := &database.Store{
		Buses:    env.buses,
		Bookings: env.bookings,
		Stations: env.stations,
		Users:    env.users,
	}

	issuer := ticket.NewIssuer(env.mail, env.files)
	issuer.RetryDelay = 0

	h := handlers.New(store, env.payment, env.mail, env.otp, issuer)

	app := fiber.New()
	app.Get("/home", h.Home)
	app.Get("/stations", h.Stations)
	app.Post("/search", h.Search)
	app.Post("/payment-intent", h.PaymentIntent)
	app.Post("/check", h.SubmitBooking)
	app.Get("/verify-ticket/:email/:transactionNumber", h.VerifyTicket)
	app.Post("/token", h.Token)
	app.Post("/login", h.Login)
	app.Post("/users", h.CreateUser)
	app.Get("/user/:email", h.GetUser)
	app.Post("/updateProfile/:email", h.UpdateProfile)
	app.Get("/getUsers/:email", h.GetUsers)
	app.Post("/superAdmin/:email", h.GrantOperator)
	app.Post("/contact", h.Contact)
	app.Post("/postEmail", h.ResendConfirmation)
	app.Get("/sendOTP/:number", h.SendOTP)
	app.Get("/verifyOTP/:request_id/:code", h.VerifyOTP)
	app.Get("/busInfo/:email", h.OperatorBuses)
	app.Patch("/bookings", h.OperatorBookings)
	app.Post("/accountHistory/:email", h.AccountHistory)
	app.Patch("/setBusAvailable/:busID", h.SetBusAvailable)
	app.Post("/deleteBus", h.DeleteBus)
	app.Post("/add-new-bus/:email", h.AddBus)
	env.app = app

	return env
}

func (env *testEnv) request(t *testing.T, method, url string, body interface{}) *http.Response {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("invalid test body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("invalid test request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return res
}

func decodeBody(t *testing.T, res *http.Response, dest interface{}) {
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		t.Fatalf("cannot decode response body: %v", err)
	}
}

func (env *testEnv) seedOperatorAdmin(t *testing.T, email, operator string) {
	inserted, err := env.users.InsertIfAbsent(context.Background(), model.UserData{
		Email:        email,
		Role:         "admin",
		OperatorName: operator,
	})
	assert.NoError(t, err)
	assert.True(t, inserted)
}

func (env *testEnv) seedBus(t *testing.T, bus model.Bus) primitive.ObjectID {
	busId, err := env.buses.Insert(context.Background(), bus)
	assert.NoError(t, err)
	return busId
}

func (env *testEnv) seedBooking(t *testing.T, booking model.Booking) {
	assert.NoError(t, env.bookings.Insert(context.Background(), booking))
}

func testBus(operator, name string, seats []int, stoppages ...string) model.Bus {
	stops := make([]model.Stoppage, 0, len(stoppages))
	for _, stop := range stoppages {
		stops = append(stops, model.Stoppage{Name: stop})
	}
	return model.Bus{
		Operator:       operator,
		Name:           name,
		Route:          stoppages,
		Stoppages:      stops,
		Cost:           450,
		DepartureTime:  "08:30",
		AvailableSeats: seats,
		Booked:         []int{},
		Available:      true,
	}
}

func testBookingFor(bus model.Bus, busId primitive.ObjectID, transactionID, date string, seats ...int) model.Booking {
	persons := make([]model.Person, 0, len(seats))
	for _, seat := range seats {
		persons = append(persons, model.Person{Name: "Test Rider", SeatNo: seat})
	}
	return model.Booking{
		Id:            primitive.NewObjectID(),
		TransactionID: transactionID,
		BusData: model.BusSnapshot{
			Bus:           model.BusSummary{Id: busId, Operator: bus.Operator, Name: bus.Name, Route: bus.Route},
			Date:          date,
			From:          "X",
			To:            "Z",
			DepartureTime: bus.DepartureTime,
			Cost:          bus.Cost,
		},
		Persons:          persons,
		PassengerDetails: model.PassengerDetails{Email: "rider@example.com", Phone: "01700000000"},
	}
}
