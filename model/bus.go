package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Stoppage is a named stop on a bus route.
type Stoppage struct {
	Name string `json:"name" bson:"name"`
	Time string `json:"time,omitempty" bson:"time,omitempty"`
}

// Bus is the static schedule plus the live seat template for one coach.
// AvailableSeats and Booked must stay disjoint; Booked is kept sorted
// ascending. Booked is a bus-level cache, the per-date truth comes from
// overlaying bookings at search time.
type Bus struct {
	Id             primitive.ObjectID `json:"_id" bson:"_id"`
	Operator       string             `json:"operator" bson:"operator"`
	Name           string             `json:"name" bson:"name"`
	Route          []string           `json:"route" bson:"route"`
	Stoppages      []Stoppage         `json:"stoppages" bson:"stoppages"`
	Cost           float64            `json:"cost" bson:"cost"`
	DepartureTime  string             `json:"dep_time" bson:"dep_time"`
	AvailableSeats []int              `json:"available_seats" bson:"available_seats"`
	Booked         []int              `json:"booked" bson:"booked"`
	Available      bool               `json:"available" bson:"available"`
}

// HasStoppage reports whether the bus stops at a station with the given name.
func (b Bus) HasStoppage(name string) bool {
	for _, stoppage := range b.Stoppages {
		if stoppage.Name == name {
			return true
		}
	}
	return false
}
