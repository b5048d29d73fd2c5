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

// PostRepository defines data access methods for posts.
type PostRepository interface {
	FindAll(ctx context.Context, limit, offset int64) ([]models.Post, error)
	FindByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Insert(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int64) error
	IncrementComments(ctx context.Context, id primitive.ObjectID, delta int64) error
}

type postRepository struct {
	coll *mongo.Collection
}

// NewPostRepository creates a new post repository backed by the posts collection.
func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{coll: db.Collection(database.CollPosts)}
}

func (r *postRepository) FindAll(ctx context.Context, limit, offset int64) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(offset)
	}
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"idAuthor": authorID}, opts)
	if err != nil {
		return nil, err
	}
	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Insert(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, post)
	return err
}

func (r *postRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// increment applies an aggregation-pipeline update so the counter adjustment
// is a single atomic server-side operation, floored at zero.
func (r *postRepository) increment(ctx context.Context, id primitive.ObjectID, field string, delta int64) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field: bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$" + field, 0}}, delta}}}},
		}}},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	return err
}

func (r *postRepository) IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return r.increment(ctx, id, "likes", delta)
}

func (r *postRepository) IncrementComments(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return r.increment(ctx, id, "nbComments", delta)
}
