package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bdbus-backend/model"
)

// UserStore keeps user profiles keyed by unique email.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.UserData, error)
	All(ctx context.Context) ([]model.UserData, error)
	// InsertIfAbsent adds the user unless the email is taken. Reports
	// whether a document was inserted.
	InsertIfAbsent(ctx context.Context, user model.UserData) (bool, error)
	UpdateProfile(ctx context.Context, email string, user model.UserData) error
	// GrantOperator promotes the user to admin scoped to operatorName.
	GrantOperator(ctx context.Context, email string, operatorName string) error
	MakeAdmin(ctx context.Context, id primitive.ObjectID) error
}

type mongoUserStore struct {
	collection *mongo.Collection
}

func (s *mongoUserStore) GetByEmail(ctx context.Context, email string) (model.UserData, error) {
	var user model.UserData
	err := s.collection.FindOne(ctx,
		bson.D{primitive.E{Key: "email", Value: email}}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return model.UserData{}, ErrNotFound
	}
	if err != nil {
		return model.UserData{}, fmt.Errorf("cannot read user %v: %v", email, err)
	}
	return user, nil
}

func (s *mongoUserStore) All(ctx context.Context) ([]model.UserData, error) {
	cur, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("cannot read users: %v", err)
	}
	users := []model.UserData{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("cannot decode users: %v", err)
	}
	return users, nil
}

func (s *mongoUserStore) InsertIfAbsent(ctx context.Context, user model.UserData) (bool, error) {
	_, err := s.GetByEmail(ctx, user.Email)
	if err == nil {
		return false, nil
	}
	if err != ErrNotFound {
		return false, err
	}

	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		return false, fmt.Errorf("cannot insert user %v: %v", user.Email, err)
	}
	return true, nil
}

func (s *mongoUserStore) UpdateProfile(ctx context.Context, email string, user model.UserData) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.D{primitive.E{Key: "email", Value: email}},
		bson.D{primitive.E{Key: "$set", Value: bson.D{
			primitive.E{Key: "name", Value: user.Name},
			primitive.E{Key: "phone", Value: user.Phone},
		}}})
	if err != nil {
		return fmt.Errorf("cannot update user %v: %v", email, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUserStore) GrantOperator(ctx context.Context, email string, operatorName string) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.D{primitive.E{Key: "email", Value: email}},
		bson.D{primitive.E{Key: "$set", Value: bson.D{
			primitive.E{Key: "operator_name", Value: operatorName},
			primitive.E{Key: "role", Value: "admin"},
		}}})
	if err != nil {
		return fmt.Errorf("cannot update user %v: %v", email, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUserStore) MakeAdmin(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.D{primitive.E{Key: "_id", Value: id}},
		bson.D{primitive.E{Key: "$set", Value: bson.D{
			primitive.E{Key: "role", Value: "admin"},
		}}})
	if err != nil {
		return fmt.Errorf("cannot update user %v: %v", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
