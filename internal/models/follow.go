package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow represents a directed follow edge between two users. The
// (idFollower, idFollowed) pair is unique; self-follows are not rejected.
type Follow struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDFollower primitive.ObjectID `bson:"idFollower" json:"idFollower"`
	IDFollowed primitive.ObjectID `bson:"idFollowed" json:"idFollowed"`
}
