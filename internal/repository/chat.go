package repository

import (
	"context"

	"picstream/internal/database"
	"picstream/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository defines data access methods for chat messages.
type ChatRepository interface {
	// FindBetween returns the full conversation between two users regardless
	// of which side sent each message.
	FindBetween(ctx context.Context, a, b primitive.ObjectID) ([]models.ChatMessage, error)
	// FindConversations returns every message the user appears in, as sender
	// or recipient.
	FindConversations(ctx context.Context, userID primitive.ObjectID) ([]models.ChatMessage, error)
	Insert(ctx context.Context, msg *models.ChatMessage) error
}

type chatRepository struct {
	coll *mongo.Collection
}

// NewChatRepository creates a new chat repository backed by the chats collection.
func NewChatRepository(db *mongo.Database) ChatRepository {
	return &chatRepository{coll: db.Collection(database.CollChats)}
}

func (r *chatRepository) FindBetween(ctx context.Context, a, b primitive.ObjectID) ([]models.ChatMessage, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"src": a, "dst": b},
		bson.M{"src": b, "dst": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	messages := []models.ChatMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) FindConversations(ctx context.Context, userID primitive.ObjectID) ([]models.ChatMessage, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"src": userID},
		bson.M{"dst": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	messages := []models.ChatMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) Insert(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}
