// Package migrate holds one-shot batch jobs that run outside the
// request-serving path.
package migrate

import (
	"context"
	"fmt"
	"strings"

	"picstream/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthorLink rewrites legacy posts whose idAuthor holds the author's
// username as a plain string into proper user ObjectID references.
//
// The job works over two read-only snapshots: it first builds a
// username -> _id index from the users collection, then scans posts for
// string-typed idAuthor values and issues one targeted $set per match.
// Posts whose username resolves to no account are left untouched and
// reported. A second run finds no string-typed idAuthor and changes
// nothing, so the job is idempotent.
type AuthorLink struct {
	db *mongo.Database
	// DryRun reports what would change without writing.
	DryRun bool
}

// NewAuthorLink creates the job over the given database handle.
func NewAuthorLink(db *mongo.Database) *AuthorLink {
	return &AuthorLink{db: db}
}

// Report summarizes one run.
type Report struct {
	Scanned    int
	Linked     int
	Unresolved []string
}

// UserRef is the slice of a user document the job needs.
type UserRef struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
}

// BuildUserIndex folds usernames to lower case so legacy posts written with
// mixed-case usernames still resolve.
func BuildUserIndex(users []UserRef) map[string]primitive.ObjectID {
	index := make(map[string]primitive.ObjectID, len(users))
	for _, u := range users {
		index[strings.ToLower(strings.TrimSpace(u.Username))] = u.ID
	}
	return index
}

// ResolveAuthor looks up a legacy author value in the index.
func ResolveAuthor(index map[string]primitive.ObjectID, author string) (primitive.ObjectID, bool) {
	id, ok := index[strings.ToLower(strings.TrimSpace(author))]
	return id, ok
}

// Run executes the job and returns its report.
func (j *AuthorLink) Run(ctx context.Context) (*Report, error) {
	index, err := j.loadUserIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	posts := j.db.Collection(database.CollPosts)
	cursor, err := posts.Find(ctx, bson.M{"idAuthor": bson.M{"$type": "string"}})
	if err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	defer cursor.Close(ctx)

	report := &Report{}
	for cursor.Next(ctx) {
		var doc struct {
			ID       primitive.ObjectID `bson:"_id"`
			IDAuthor string             `bson:"idAuthor"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		report.Scanned++

		userID, ok := ResolveAuthor(index, doc.IDAuthor)
		if !ok {
			report.Unresolved = append(report.Unresolved, doc.IDAuthor)
			continue
		}

		if !j.DryRun {
			// Filter on the old value too so a concurrent writer is never
			// overwritten.
			_, err := posts.UpdateOne(ctx,
				bson.M{"_id": doc.ID, "idAuthor": doc.IDAuthor},
				bson.M{"$set": bson.M{"idAuthor": userID}})
			if err != nil {
				return nil, fmt.Errorf("link post %s: %w", doc.ID.Hex(), err)
			}
		}
		report.Linked++
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return report, nil
}

func (j *AuthorLink) loadUserIndex(ctx context.Context) (map[string]primitive.ObjectID, error) {
	cursor, err := j.db.Collection(database.CollUsers).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []UserRef
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return BuildUserIndex(users), nil
}
