package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the dashboard account record. The identifier is immutable once the
// record exists; every other field is optional.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	State     string             `bson:"state,omitempty" json:"state,omitempty"`
	City      string             `bson:"city,omitempty" json:"city,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UserFields is the editable subset submitted by the account form. The form
// always submits its whole local copy, so updates carry every field here, not
// a diff.
type UserFields struct {
	FirstName string `bson:"firstName" json:"firstName" binding:"required"`
	LastName  string `bson:"lastName" json:"lastName" binding:"required"`
	Email     string `bson:"email" json:"email" binding:"required"`
	Phone     string `bson:"phone" json:"phone"`
	State     string `bson:"state" json:"state"`
	City      string `bson:"city" json:"city"`
}
