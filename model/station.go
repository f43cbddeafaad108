package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Station is a named stoppage, deduplicated by name before insertion.
type Station struct {
	Id   primitive.ObjectID `json:"_id" bson:"_id"`
	Name string             `json:"name" bson:"name"`
}
