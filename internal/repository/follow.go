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

// FollowRepository defines data access methods for follow edges.
type FollowRepository interface {
	// FindByFollower lists the follow edges created by a user, i.e. the
	// users that user follows.
	FindByFollower(ctx context.Context, followerID primitive.ObjectID) ([]models.Follow, error)
	Insert(ctx context.Context, follow *models.Follow) error
	// FindAndRemove deletes the edge for the (follower, followed) pair and
	// returns the removed document, or (nil, nil) when no such edge exists.
	FindAndRemove(ctx context.Context, followerID, followedID primitive.ObjectID) (*models.Follow, error)
}

type followRepository struct {
	coll *mongo.Collection
}

// NewFollowRepository creates a new follow repository backed by the follows collection.
func NewFollowRepository(db *mongo.Database) FollowRepository {
	return &followRepository{coll: db.Collection(database.CollFollows)}
}

func (r *followRepository) FindByFollower(ctx context.Context, followerID primitive.ObjectID) ([]models.Follow, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"idFollower": followerID})
	if err != nil {
		return nil, err
	}
	follows := []models.Follow{}
	if err := cursor.All(ctx, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}

func (r *followRepository) Insert(ctx context.Context, follow *models.Follow) error {
	if follow.ID.IsZero() {
		follow.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, follow)
	return err
}

func (r *followRepository) FindAndRemove(ctx context.Context, followerID, followedID primitive.ObjectID) (*models.Follow, error) {
	filter := bson.M{"idFollower": followerID, "idFollowed": followedID}
	var follow models.Follow
	err := r.coll.FindOneAndDelete(ctx, filter).Decode(&follow)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &follow, nil
}
