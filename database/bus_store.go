package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bdbus-backend/model"
)

// BusStore is the catalog of published bus schedules.
type BusStore interface {
	Insert(ctx context.Context, bus model.Bus) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (model.Bus, error)
	All(ctx context.Context) ([]model.Bus, error)
	// FindForJourney returns available buses stopping at both stations.
	// Stoppage order along the route is not checked, matching set
	// membership is enough.
	FindForJourney(ctx context.Context, from, to string) ([]model.Bus, error)
	FindByOperator(ctx context.Context, operator string) ([]model.Bus, error)
	FindByOperatorAndAvailability(ctx context.Context, operator string, available bool) ([]model.Bus, error)
	SetAvailable(ctx context.Context, id primitive.ObjectID, available bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoBusStore struct {
	collection *mongo.Collection
}

func (s *mongoBusStore) Insert(ctx context.Context, bus model.Bus) (primitive.ObjectID, error) {
	if bus.Id.IsZero() {
		bus.Id = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, bus)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("cannot insert bus: %v", err)
	}
	return bus.Id, nil
}

func (s *mongoBusStore) Get(ctx context.Context, id primitive.ObjectID) (model.Bus, error) {
	var bus model.Bus
	err := s.collection.FindOne(ctx, bson.D{primitive.E{Key: "_id", Value: id}}).Decode(&bus)
	if err == mongo.ErrNoDocuments {
		return model.Bus{}, ErrNotFound
	}
	if err != nil {
		return model.Bus{}, fmt.Errorf("cannot read bus %v: %v", id.Hex(), err)
	}
	return bus, nil
}

func (s *mongoBusStore) All(ctx context.Context) ([]model.Bus, error) {
	return s.find(ctx, bson.D{})
}

func (s *mongoBusStore) FindForJourney(ctx context.Context, from, to string) ([]model.Bus, error) {
	query := bson.D{primitive.E{Key: "$and", Value: bson.A{
		bson.D{primitive.E{Key: "stoppages", Value: bson.D{
			primitive.E{Key: "$elemMatch", Value: bson.D{primitive.E{Key: "name", Value: from}}}}}},
		bson.D{primitive.E{Key: "stoppages", Value: bson.D{
			primitive.E{Key: "$elemMatch", Value: bson.D{primitive.E{Key: "name", Value: to}}}}}},
		bson.D{primitive.E{Key: "available", Value: true}},
	}}}
	return s.find(ctx, query)
}

func (s *mongoBusStore) FindByOperator(ctx context.Context, operator string) ([]model.Bus, error) {
	return s.find(ctx, bson.D{primitive.E{Key: "operator", Value: operator}})
}

func (s *mongoBusStore) FindByOperatorAndAvailability(ctx context.Context, operator string, available bool) ([]model.Bus, error) {
	query := bson.D{primitive.E{Key: "$and", Value: bson.A{
		bson.D{primitive.E{Key: "operator", Value: operator}},
		bson.D{primitive.E{Key: "available", Value: available}},
	}}}
	return s.find(ctx, query)
}

func (s *mongoBusStore) SetAvailable(ctx context.Context, id primitive.ObjectID, available bool) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.D{primitive.E{Key: "_id", Value: id}},
		bson.D{primitive.E{Key: "$set", Value: bson.D{primitive.E{Key: "available", Value: available}}}})
	if err != nil {
		return fmt.Errorf("cannot update bus %v: %v", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoBusStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.D{primitive.E{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("cannot delete bus %v: %v", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoBusStore) find(ctx context.Context, query bson.D) ([]model.Bus, error) {
	cur, err := s.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("cannot read buses: %v", err)
	}
	buses := []model.Bus{}
	if err := cur.All(ctx, &buses); err != nil {
		return nil, fmt.Errorf("cannot decode buses: %v", err)
	}
	return buses, nil
}
