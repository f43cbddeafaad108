package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// BusSummary identifies the bus a booking was made against.
type BusSummary struct {
	Id       primitive.ObjectID `json:"_id" bson:"_id"`
	Operator string             `json:"operator" bson:"operator"`
	Name     string             `json:"name" bson:"name"`
	Route    []string           `json:"route,omitempty" bson:"route,omitempty"`
}

// BusSnapshot is the denormalized copy of the bus and journey taken at
// booking time. Later bus edits must not alter historical bookings, so the
// snapshot is never refreshed from the catalog.
type BusSnapshot struct {
	Bus           BusSummary `json:"bus" bson:"bus"`
	Date          string     `json:"date" bson:"date"`
	From          string     `json:"from" bson:"from"`
	To            string     `json:"to" bson:"to"`
	DepartureTime string     `json:"dep_time" bson:"dep_time"`
	Cost          float64    `json:"cost" bson:"cost"`
}

// Person is one passenger on a booking.
type Person struct {
	Name   string `json:"name" bson:"name"`
	Gender string `json:"gender,omitempty" bson:"gender,omitempty"`
	Age    uint   `json:"age,omitempty" bson:"age,omitempty"`
	SeatNo int    `json:"seat_no" bson:"seat_no"`
}

// PassengerDetails is the booking contact, used for lookup and search.
type PassengerDetails struct {
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

// Booking is one paid reservation. TransactionID is the payment gateway's
// token and the natural key: at most one booking may ever exist per id.
// Bookings are immutable once inserted.
type Booking struct {
	Id               primitive.ObjectID `json:"_id" bson:"_id"`
	TransactionID    string             `json:"transaction_id" bson:"transaction_id"`
	BusData          BusSnapshot        `json:"bus_data" bson:"bus_data"`
	Persons          []Person           `json:"persons" bson:"persons"`
	PassengerDetails PassengerDetails   `json:"passenger_details" bson:"passenger_details"`
	BookedAt         string             `json:"booked_at" bson:"booked_at"`
}

// SeatNumbers returns the seats this booking holds, in passenger order.
func (b Booking) SeatNumbers() []int {
	seats := make([]int, 0, len(b.Persons))
	for _, person := range b.Persons {
		seats = append(seats, person.SeatNo)
	}
	return seats
}
