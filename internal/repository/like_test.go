package repository

import (
	"context"
	"testing"

	"picstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestLikeRepository_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock).DatabaseName(testDB))

	mt.Run("first like succeeds", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewLikeRepository(mt.DB)
		like := &models.Like{IDLiker: primitive.NewObjectID(), IDLiked: primitive.NewObjectID()}
		err := repo.Insert(context.Background(), like)
		require.NoError(mt, err)
		assert.False(mt, like.ID.IsZero())
	})

	mt.Run("second like on same pair hits the unique index", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: picstream_test.likes index: idLiker_1_idLiked_1",
		}))

		repo := NewLikeRepository(mt.DB)
		err := repo.Insert(context.Background(), &models.Like{
			IDLiker: primitive.NewObjectID(),
			IDLiked: primitive.NewObjectID(),
		})
		require.Error(mt, err)
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})
}

func TestLikeRepository_FindAndRemove(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock).DatabaseName(testDB))

	mt.Run("removes the directional pair and returns it", func(mt *mtest.T) {
		liker := primitive.NewObjectID()
		liked := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "idLiker", Value: liker},
			{Key: "idLiked", Value: liked},
		}}))

		repo := NewLikeRepository(mt.DB)
		removed, err := repo.FindAndRemove(context.Background(), liker, liked)
		require.NoError(mt, err)
		require.NotNil(mt, removed)
		assert.Equal(mt, liker, removed.IDLiker)
		assert.Equal(mt, liked, removed.IDLiked)
	})

	mt.Run("absent edge yields nil without error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		repo := NewLikeRepository(mt.DB)
		removed, err := repo.FindAndRemove(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Nil(mt, removed)
	})
}

func TestLikeRepository_FindByLiker(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock).DatabaseName(testDB))

	mt.Run("lists the posts a user liked, filtering on the liker side", func(mt *mtest.T) {
		liker := primitive.NewObjectID()
		liked := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".likes", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "idLiker", Value: liker},
			{Key: "idLiked", Value: liked},
		}))

		repo := NewLikeRepository(mt.DB)
		likes, err := repo.FindByLiker(context.Background(), liker)
		require.NoError(mt, err)
		require.Len(mt, likes, 1)
		assert.Equal(mt, liker, likes[0].IDLiker)
		assert.Equal(mt, liked, likes[0].IDLiked)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		filter := started.Command.Lookup("filter").Document()
		id, lookupErr := filter.LookupErr("idLiker")
		require.NoError(mt, lookupErr)
		assert.Equal(mt, liker, id.ObjectID())
		_, lookupErr = filter.LookupErr("idLiked")
		assert.Error(mt, lookupErr)
	})

	mt.Run("user with no likes returns empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDB+".likes", mtest.FirstBatch))

		repo := NewLikeRepository(mt.DB)
		likes, err := repo.FindByLiker(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		require.NotNil(mt, likes)
		assert.Len(mt, likes, 0)
	})
}
