package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bdbus-backend/config"
)

// Sentinel errors surfaced by the stores. Handlers translate them into
// structured failure responses at the request boundary.
var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateTransaction = errors.New("transaction id already used by another booking")
	ErrSeatConflict         = errors.New("seat already booked for this bus and date")
)

// Store bundles the collection-backed stores behind one open/close
// lifecycle. It is passed by reference to the handlers, never accessed as
// ambient global state.
type Store struct {
	client *mongo.Client

	Buses    BusStore
	Bookings BookingStore
	Stations StationStore
	Users    UserStore
}

// Open connects to MongoDB, verifies the connection and prepares the
// collections. A unique index on transaction_id backs the at-most-one
// booking-per-payment contract even if two inserts race past the advisory
// lock (e.g. two service instances).
func Open(ctx context.Context, connString string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(connString)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the db: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("db is not available: %v", err)
	}

	db := client.Database(config.DATABASE_NAME)

	bookings := db.Collection(config.BOOKINGS_COLLECTION)
	_, err = bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transaction_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot ensure transaction_id index: %v", err)
	}

	return &Store{
		client: client,
		Buses:  &mongoBusStore{collection: db.Collection(config.BUSES_COLLECTION)},
		Bookings: &mongoBookingStore{
			collection: bookings,
			locks:      newJourneyLocks(),
		},
		Stations: &mongoStationStore{collection: db.Collection(config.STATIONS_COLLECTION)},
		Users:    &mongoUserStore{collection: db.Collection(config.USERS_COLLECTION)},
	}, nil
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
