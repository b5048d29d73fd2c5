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

// CommentRepository defines data access methods for comments.
type CommentRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	FindByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	Insert(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	coll *mongo.Collection
}

// NewCommentRepository creates a new comment repository backed by the comments collection.
func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &commentRepository{coll: db.Collection(database.CollComments)}
}

func (r *commentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"idPost": postID}, opts)
	if err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, comment)
	return err
}
