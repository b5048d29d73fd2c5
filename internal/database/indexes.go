package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names, one per entity family.
const (
	CollUsers         = "users"
	CollPosts         = "posts"
	CollComments      = "comments"
	CollLikes         = "likes"
	CollFollows       = "follows"
	CollNotifications = "notifications"
	CollChats         = "chats"
)

// EnsureUniqueIndexes creates the unique indexes the relationship model
// relies on: users.username, users.email, and the directional like and
// follow pairs. Duplicate-key conflict semantics depend on these existing,
// so they are ensured on every boot. CreateMany is idempotent for
// identical definitions.
func EnsureUniqueIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(CollUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollLikes).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "idLiker", Value: 1}, {Key: "idLiked", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollFollows).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "idFollower", Value: 1}, {Key: "idFollowed", Value: 1}},
		Options: unique,
	})
	return err
}

// EnsureSecondaryIndexes creates the non-unique indexes serving the main
// read patterns: author and post lookups, the per-user like and follow
// lists, notification recipients, and the two chat endpoints.
func EnsureSecondaryIndexes(ctx context.Context, db *mongo.Database) error {
	secondary := map[string][]bson.D{
		CollPosts:         {{{Key: "idAuthor", Value: 1}}},
		CollComments:      {{{Key: "idPost", Value: 1}}},
		CollLikes:         {{{Key: "idLiker", Value: 1}}},
		CollFollows:       {{{Key: "idFollower", Value: 1}}},
		CollNotifications: {{{Key: "recipient", Value: 1}}},
		CollChats:         {{{Key: "src", Value: 1}}, {{Key: "dst", Value: 1}}},
	}
	for coll, keys := range secondary {
		models := make([]mongo.IndexModel, 0, len(keys))
		for _, k := range keys {
			models = append(models, mongo.IndexModel{Keys: k})
		}
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// EnsureIndexes creates the full index set, unique and secondary.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := EnsureUniqueIndexes(ctx, db); err != nil {
		return err
	}
	return EnsureSecondaryIndexes(ctx, db)
}
