package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bdbus-backend/model"
)

// StationStore keeps the set of known stoppage names.
type StationStore interface {
	// InsertIfAbsent adds the station unless one with the same name
	// exists. Reports whether a document was inserted.
	InsertIfAbsent(ctx context.Context, station model.Station) (bool, error)
	All(ctx context.Context) ([]model.Station, error)
}

type mongoStationStore struct {
	collection *mongo.Collection
}

func (s *mongoStationStore) InsertIfAbsent(ctx context.Context, station model.Station) (bool, error) {
	err := s.collection.FindOne(ctx,
		bson.D{primitive.E{Key: "name", Value: station.Name}}).Err()
	if err == nil {
		return false, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, fmt.Errorf("cannot read station %v: %v", station.Name, err)
	}

	if station.Id.IsZero() {
		station.Id = primitive.NewObjectID()
	}
	if _, err := s.collection.InsertOne(ctx, station); err != nil {
		return false, fmt.Errorf("cannot insert station %v: %v", station.Name, err)
	}
	return true, nil
}

func (s *mongoStationStore) All(ctx context.Context) ([]model.Station, error) {
	cur, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("cannot read stations: %v", err)
	}
	stations := []model.Station{}
	if err := cur.All(ctx, &stations); err != nil {
		return nil, fmt.Errorf("cannot decode stations: %v", err)
	}
	return stations, nil
}
