package repository

import (
	"context"
	"errors"

	"picstream/internal/database"
	"picstream/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LikeRepository defines data access methods for like edges.
type LikeRepository interface {
	// FindByLiker lists the like edges created by a user, i.e. the posts
	// that user has liked.
	FindByLiker(ctx context.Context, likerID primitive.ObjectID) ([]models.Like, error)
	Insert(ctx context.Context, like *models.Like) error
	// FindAndRemove deletes the edge for the (liker, liked) pair and returns
	// the removed document, or (nil, nil) when no such edge exists.
	FindAndRemove(ctx context.Context, likerID, likedID primitive.ObjectID) (*models.Like, error)
}

type likeRepository struct {
	coll *mongo.Collection
}

// NewLikeRepository creates a new like repository backed by the likes collection.
func NewLikeRepository(db *mongo.Database) LikeRepository {
	return &likeRepository{coll: db.Collection(database.CollLikes)}
}

func (r *likeRepository) FindByLiker(ctx context.Context, likerID primitive.ObjectID) ([]models.Like, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"idLiker": likerID})
	if err != nil {
		return nil, err
	}
	likes := []models.Like{}
	if err := cursor.All(ctx, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *likeRepository) Insert(ctx context.Context, like *models.Like) error {
	if like.ID.IsZero() {
		like.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, like)
	return err
}

func (r *likeRepository) FindAndRemove(ctx context.Context, likerID, likedID primitive.ObjectID) (*models.Like, error) {
	filter := bson.M{"idLiker": likerID, "idLiked": likedID}
	var like models.Like
	err := r.coll.FindOneAndDelete(ctx, filter).Decode(&like)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}
