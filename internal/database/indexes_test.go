package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type indexDef struct {
	coll   string
	keys   string
	unique bool
}

// startedIndexDefs flattens the createIndexes commands the mock client saw
// into one definition per index.
func startedIndexDefs(mt *mtest.T) []indexDef {
	var defs []indexDef
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName != "createIndexes" {
			continue
		}
		coll := evt.Command.Lookup("createIndexes").StringValue()
		values, err := evt.Command.Lookup("indexes").Array().Values()
		require.NoError(mt, err)
		for _, v := range values {
			doc := v.Document()
			elements, err := doc.Lookup("key").Document().Elements()
			require.NoError(mt, err)
			names := make([]string, 0, len(elements))
			for _, e := range elements {
				names = append(names, e.Key())
			}
			unique := false
			if u, lookupErr := doc.LookupErr("unique"); lookupErr == nil {
				unique = u.Boolean()
			}
			defs = append(defs, indexDef{coll: coll, keys: strings.Join(names, ","), unique: unique})
		}
	}
	return defs
}

func hasIndex(defs []indexDef, coll, keys string, unique bool) bool {
	for _, d := range defs {
		if d.coll == coll && d.keys == keys && d.unique == unique {
			return true
		}
	}
	return false
}

func TestEnsureUniqueIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock).DatabaseName("picstream_test"))

	mt.Run("covers the conflict-bearing keys", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		require.NoError(mt, EnsureUniqueIndexes(context.Background(), mt.DB))

		defs := startedIndexDefs(mt)
		assert.True(mt, hasIndex(defs, CollUsers, "username", true))
		assert.True(mt, hasIndex(defs, CollUsers, "email", true))
		assert.True(mt, hasIndex(defs, CollLikes, "idLiker,idLiked", true))
		assert.True(mt, hasIndex(defs, CollFollows, "idFollower,idFollowed", true))
	})
}

func TestEnsureSecondaryIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock).DatabaseName("picstream_test"))

	mt.Run("covers the per-user like and follow list reads", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		require.NoError(mt, EnsureSecondaryIndexes(context.Background(), mt.DB))

		defs := startedIndexDefs(mt)
		assert.True(mt, hasIndex(defs, CollPosts, "idAuthor", false))
		assert.True(mt, hasIndex(defs, CollComments, "idPost", false))
		assert.True(mt, hasIndex(defs, CollLikes, "idLiker", false))
		assert.True(mt, hasIndex(defs, CollFollows, "idFollower", false))
		assert.True(mt, hasIndex(defs, CollNotifications, "recipient", false))
		assert.True(mt, hasIndex(defs, CollChats, "src", false))
		assert.True(mt, hasIndex(defs, CollChats, "dst", false))
	})
}
