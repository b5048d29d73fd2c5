package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post. Many comments per post, no
// uniqueness constraint, no delete path.
type Comment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDPost   primitive.ObjectID `bson:"idPost" json:"idPost"`
	IDAuthor primitive.ObjectID `bson:"idAuthor" json:"idAuthor"`
	Content  string             `bson:"content" json:"content"`
}
