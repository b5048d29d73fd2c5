package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media types accepted for a post.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post represents a published media item. IDAuthor is a non-owning reference:
// the referenced user may have been deleted and readers must tolerate that.
// Likes and NbComments are denormalized counters mutated only through explicit
// update calls, never recomputed from the likes/comments collections.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IDAuthor    primitive.ObjectID `bson:"idAuthor" json:"idAuthor"`
	Media       string             `bson:"media" json:"media"`
	MediaType   string             `bson:"mediaType" json:"mediaType"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Likes       int64              `bson:"likes" json:"likes"`
	NbComments  int64              `bson:"nbComments" json:"nbComments"`
}
