package service

import (
	"context"
	"time"

	"picstream/internal/models"
	"picstream/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

type CreateNotificationInput struct {
	Author    string             `json:"author"`
	Recipient primitive.ObjectID `json:"recipient"`
	Content   primitive.ObjectID `json:"content"`
	Type      string             `json:"type"`
	Date      int64              `json:"date"`
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.FindByRecipient(ctx, recipientID)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	return notifications, nil
}

// CreateNotification stores a new notification. IsRead is forced to false
// regardless of caller input, and a missing date defaults to now.
func (s *NotificationService) CreateNotification(ctx context.Context, in CreateNotificationInput) (*models.Notification, error) {
	if in.Recipient.IsZero() {
		return nil, models.NewValidationError("recipient is required")
	}
	if in.Author == "" {
		return nil, models.NewValidationError("author is required")
	}
	if !models.ValidNotificationType(in.Type) {
		return nil, models.NewValidationError("type must be 'follow', 'like' or 'comment'")
	}

	date := in.Date
	if date == 0 {
		date = time.Now().UnixMilli()
	}

	notification := &models.Notification{
		Author:    in.Author,
		Recipient: in.Recipient,
		Content:   in.Content,
		Type:      in.Type,
		Date:      date,
		IsRead:    false,
	}

	if err := s.notificationRepo.Insert(ctx, notification); err != nil {
		return nil, translateWriteError(err)
	}
	return notification, nil
}

// MarkRead flips the read flag. Re-marking an already read notification is a
// no-op that still returns the document.
func (s *NotificationService) MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	notification, err := s.notificationRepo.MarkRead(ctx, id)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	if notification == nil {
		return nil, models.NewNotFoundError("notification", id.Hex())
	}
	return notification, nil
}
