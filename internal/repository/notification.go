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

// NotificationRepository defines data access methods for notifications.
type NotificationRepository interface {
	FindByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Notification, error)
	Insert(ctx context.Context, notification *models.Notification) error
	// MarkRead flips isRead on the notification and returns the updated
	// document, or (nil, nil) when the id does not exist.
	MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
}

type notificationRepository struct {
	coll *mongo.Collection
}

// NewNotificationRepository creates a new notification repository backed by
// the notifications collection.
func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{coll: db.Collection(database.CollNotifications)}
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"recipient": recipientID}, opts)
	if err != nil {
		return nil, err
	}
	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) Insert(ctx context.Context, notification *models.Notification) error {
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, notification)
	return err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var notification models.Notification
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isRead": true}}, opts).Decode(&notification)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}
