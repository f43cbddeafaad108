package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bdbus-backend/domain"
	"bdbus-backend/model"
)

// Page selects one slice of a result set: skip Number*PerPage, take PerPage.
// A negative Number reads from the start; PerPage <= 0 disables pagination.
type Page struct {
	Number  int64
	PerPage int64
}

// BookingFilter narrows an operator's bookings. SearchText matches the bus
// name, the travel date, the passenger email or the passenger phone exactly
// (no substring semantics). FromDate/ToDate bound the travel date
// inclusively; both must be set together.
type BookingFilter struct {
	Operator   string
	SearchText string
	FromDate   string
	ToDate     string
}

// BookingStore holds one immutable document per paid transaction.
type BookingStore interface {
	// Insert persists a booking if and only if its transaction id was
	// never booked before (ErrDuplicateTransaction) and none of its seats
	// is already held for the same bus and travel date (ErrSeatConflict).
	Insert(ctx context.Context, booking model.Booking) error
	GetByTransactionID(ctx context.Context, transactionID string) (model.Booking, error)
	FindByDate(ctx context.Context, date string) ([]model.Booking, error)
	FindByOperator(ctx context.Context, filter BookingFilter, page Page) ([]model.Booking, error)
	CountByOperator(ctx context.Context, filter BookingFilter) (int64, error)
	FindByPassenger(ctx context.Context, email string, page Page) ([]model.Booking, error)
	CountByPassenger(ctx context.Context, email string) (int64, error)
}

type mongoBookingStore struct {
	collection *mongo.Collection
	locks      *journeyLocks
}

func (s *mongoBookingStore) Insert(ctx context.Context, booking model.Booking) error {
	// serialize the seat check and the insert per bus+date
	release := s.locks.acquire(booking.BusData.Bus.Id.Hex() + "/" + booking.BusData.Date)
	defer release()

	taken, err := s.seatsTaken(ctx, booking.BusData.Bus.Id, booking.BusData.Date)
	if err != nil {
		return err
	}
	if !domain.Disjoint(taken, booking.SeatNumbers()) {
		return ErrSeatConflict
	}

	_, err = s.collection.InsertOne(ctx, booking)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateTransaction
	}
	if err != nil {
		return fmt.Errorf("cannot insert booking %v: %v", booking.TransactionID, err)
	}
	return nil
}

func (s *mongoBookingStore) GetByTransactionID(ctx context.Context, transactionID string) (model.Booking, error) {
	var booking model.Booking
	err := s.collection.FindOne(ctx,
		bson.D{primitive.E{Key: "transaction_id", Value: transactionID}}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return model.Booking{}, ErrNotFound
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("cannot read booking %v: %v", transactionID, err)
	}
	return booking, nil
}

func (s *mongoBookingStore) FindByDate(ctx context.Context, date string) ([]model.Booking, error) {
	return s.find(ctx, bson.D{primitive.E{Key: "bus_data.date", Value: date}}, Page{})
}

func (s *mongoBookingStore) FindByOperator(ctx context.Context, filter BookingFilter, page Page) ([]model.Booking, error) {
	return s.find(ctx, operatorQuery(filter), page)
}

func (s *mongoBookingStore) CountByOperator(ctx context.Context, filter BookingFilter) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, operatorQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("cannot count bookings: %v", err)
	}
	return count, nil
}

func (s *mongoBookingStore) FindByPassenger(ctx context.Context, email string, page Page) ([]model.Booking, error) {
	return s.find(ctx, bson.D{primitive.E{Key: "passenger_details.email", Value: email}}, page)
}

func (s *mongoBookingStore) CountByPassenger(ctx context.Context, email string) (int64, error) {
	count, err := s.collection.CountDocuments(ctx,
		bson.D{primitive.E{Key: "passenger_details.email", Value: email}})
	if err != nil {
		return 0, fmt.Errorf("cannot count bookings: %v", err)
	}
	return count, nil
}

func (s *mongoBookingStore) seatsTaken(ctx context.Context, busId primitive.ObjectID, date string) ([]int, error) {
	query := bson.D{primitive.E{Key: "$and", Value: bson.A{
		bson.D{primitive.E{Key: "bus_data.bus._id", Value: busId}},
		bson.D{primitive.E{Key: "bus_data.date", Value: date}},
	}}}
	bookings, err := s.find(ctx, query, Page{})
	if err != nil {
		return nil, err
	}
	taken := []int{}
	for _, booking := range bookings {
		taken = append(taken, booking.SeatNumbers()...)
	}
	return taken, nil
}

func operatorQuery(filter BookingFilter) bson.D {
	conditions := bson.A{
		bson.D{primitive.E{Key: "bus_data.bus.operator", Value: filter.Operator}},
	}
	if filter.SearchText != "" {
		conditions = append(conditions, bson.D{primitive.E{Key: "$or", Value: bson.A{
			bson.D{primitive.E{Key: "bus_data.bus.name", Value: filter.SearchText}},
			bson.D{primitive.E{Key: "bus_data.date", Value: filter.SearchText}},
			bson.D{primitive.E{Key: "passenger_details.email", Value: filter.SearchText}},
			bson.D{primitive.E{Key: "passenger_details.phone", Value: filter.SearchText}},
		}}})
	}
	if filter.FromDate != "" && filter.ToDate != "" {
		conditions = append(conditions, bson.D{primitive.E{Key: "bus_data.date", Value: bson.D{
			primitive.E{Key: "$gte", Value: filter.FromDate},
			primitive.E{Key: "$lte", Value: filter.ToDate},
		}}})
	}
	return bson.D{primitive.E{Key: "$and", Value: conditions}}
}

func (s *mongoBookingStore) find(ctx context.Context, query bson.D, page Page) ([]model.Booking, error) {
	findOptions := options.Find()
	if page.PerPage > 0 {
		skip := page.Number * page.PerPage
		if skip < 0 {
			skip = 0
		}
		findOptions.SetSkip(skip).SetLimit(page.PerPage)
	}
	cur, err := s.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot read bookings: %v", err)
	}
	bookings := []model.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("cannot decode bookings: %v", err)
	}
	return bookings, nil
}
