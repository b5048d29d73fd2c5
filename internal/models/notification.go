package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType enumerates the events a notification can describe.
// Content holds the id of the related entity; its meaning depends on Type.
const (
	NotificationTypeFollow  = "follow"
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

// Notification is addressed to a single recipient. IsRead defaults to false
// at creation; there is no delete path.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author    string             `bson:"author" json:"author"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Content   primitive.ObjectID `bson:"content" json:"content"`
	Type      string             `bson:"type" json:"type"`
	Date      int64              `bson:"date" json:"date"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
}

// ValidNotificationType reports whether t is one of the known types.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeFollow, NotificationTypeLike, NotificationTypeComment:
		return true
	}
	return false
}
