// Package models contains data structures for the application's domain models.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultProfilePicture is assigned to every new account regardless of caller input.
const DefaultProfilePicture = "/default/default.png"

// User represents an account in the picstream application.
// nbFollow and nbFollowers are denormalized counters, not derived fields:
// the store never recomputes them from the follows collection.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	Description    string             `bson:"description" json:"description"`
	ProfilePicture string             `bson:"profilePicture" json:"profilePicture"`
	NbFollow       int64              `bson:"nbFollow" json:"nbFollow"`
	NbFollowers    int64              `bson:"nbFollowers" json:"nbFollowers"`
	IsPrivate      bool               `bson:"isPrivate" json:"isPrivate"`
}
