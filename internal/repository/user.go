// Package repository contains the data access layer. Repositories speak raw
// driver types: a missing document is (nil, nil), list reads return an empty
// slice, and driver errors (duplicate keys included) propagate untranslated
// for the service layer to classify.
package repository

import (
	"context"
	"errors"

	"picstream/internal/database"
	"picstream/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines data access methods for users.
type UserRepository interface {
	FindAll(ctx context.Context, limit, offset int64) ([]models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	UpdateByUsername(ctx context.Context, username string, set bson.M) (*models.User, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
	IncrementFollowCounts(ctx context.Context, followerID, followedID primitive.ObjectID, delta int64) error
}

type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new user repository backed by the users collection.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{coll: db.Collection(database.CollUsers)}
}

func (r *userRepository) FindAll(ctx context.Context, limit, offset int64) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(offset)
	}
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) Insert(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, user)
	return err
}

func (r *userRepository) UpdateByUsername(ctx context.Context, username string, set bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"username": username}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IncrementFollowCounts atomically adjusts nbFollow on the follower and
// nbFollowers on the followed user, flooring both at zero so replayed
// unfollows never drive a counter negative.
func (r *userRepository) IncrementFollowCounts(ctx context.Context, followerID, followedID primitive.ObjectID, delta int64) error {
	floorInc := func(field string) mongo.Pipeline {
		return mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				field: bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$" + field, 0}}, delta}}}},
			}}},
		}
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": followerID}, floorInc("nbFollow")); err != nil {
		return err
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": followedID}, floorInc("nbFollowers"))
	return err
}
