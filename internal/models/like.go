package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like represents a user's like on a post. The (idLiker, idLiked) pair is
// directional and unique: a user can like a given post at most once.
type Like struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDLiker primitive.ObjectID `bson:"idLiker" json:"idLiker"`
	IDLiked primitive.ObjectID `bson:"idLiked" json:"idLiked"`
}
