package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is a direct message between two users. Messages are ordered by
// natural insertion; there is no read or delivery status.
type ChatMessage struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Src     primitive.ObjectID `bson:"src" json:"src"`
	Dst     primitive.ObjectID `bson:"dst" json:"dst"`
	Author  string             `bson:"author" json:"author"`
	Message string             `bson:"message" json:"message"`
}
