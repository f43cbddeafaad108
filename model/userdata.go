package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserData is keyed by unique email. OperatorName scopes admin queries to
// the buses and bookings of that operator.
type UserData struct {
	Id             primitive.ObjectID `json:"_id" bson:"_id"`
	Email          string             `json:"email" bson:"email,omitempty"`
	Name           string             `json:"name,omitempty" bson:"name,omitempty"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	HashedPassword string             `json:"password_hash,omitempty" bson:"password_hash,omitempty"`
	Role           string             `json:"role,omitempty" bson:"role,omitempty"`
	OperatorName   string             `json:"operator_name,omitempty" bson:"operator_name,omitempty"`
}

// IsAdmin reports whether the user may use the operator dashboard.
func (u UserData) IsAdmin() bool {
	return u.Role == "admin" && u.OperatorName != ""
}
