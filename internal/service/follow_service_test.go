package service

import (
	"context"
	"testing"

	"picstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFollowService_CreateFollow(t *testing.T) {
	t.Parallel()

	t.Run("inserts edge and bumps both counters", func(t *testing.T) {
		t.Parallel()
		followRepo := noopFollowRepo()
		userRepo := noopUserRepo()

		var gotFollower, gotFollowed primitive.ObjectID
		var gotDelta int64
		userRepo.incrementFollowersFn = func(_ context.Context, follower, followed primitive.ObjectID, delta int64) error {
			gotFollower = follower
			gotFollowed = followed
			gotDelta = delta
			return nil
		}

		svc := NewFollowService(followRepo, userRepo)
		pair := FollowPair{IDFollower: primitive.NewObjectID(), IDFollowed: primitive.NewObjectID()}
		follow, err := svc.CreateFollow(context.Background(), pair)
		require.NoError(t, err)
		assert.Equal(t, pair.IDFollower, follow.IDFollower)
		assert.Equal(t, pair.IDFollower, gotFollower)
		assert.Equal(t, pair.IDFollowed, gotFollowed)
		assert.Equal(t, int64(1), gotDelta)
	})

	t.Run("duplicate pair is a conflict with no counter change", func(t *testing.T) {
		t.Parallel()
		followRepo := noopFollowRepo()
		followRepo.insertFn = func(context.Context, *models.Follow) error { return duplicateKeyErr() }

		userRepo := noopUserRepo()
		bumps := 0
		userRepo.incrementFollowersFn = func(context.Context, primitive.ObjectID, primitive.ObjectID, int64) error {
			bumps++
			return nil
		}

		svc := NewFollowService(followRepo, userRepo)
		_, err := svc.CreateFollow(context.Background(), FollowPair{
			IDFollower: primitive.NewObjectID(),
			IDFollowed: primitive.NewObjectID(),
		})
		assertAppError(t, err, models.ErrCodeConflict)
		assert.Zero(t, bumps)
	})

	t.Run("self follow is accepted", func(t *testing.T) {
		t.Parallel()
		id := primitive.NewObjectID()
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())
		follow, err := svc.CreateFollow(context.Background(), FollowPair{IDFollower: id, IDFollowed: id})
		require.NoError(t, err)
		assert.Equal(t, id, follow.IDFollower)
		assert.Equal(t, id, follow.IDFollowed)
	})
}

func TestFollowService_DeleteFollow(t *testing.T) {
	t.Parallel()

	t.Run("removes edge and decrements counters", func(t *testing.T) {
		t.Parallel()
		followRepo := noopFollowRepo()
		followRepo.findAndRemoveFn = func(_ context.Context, follower, followed primitive.ObjectID) (*models.Follow, error) {
			return &models.Follow{ID: primitive.NewObjectID(), IDFollower: follower, IDFollowed: followed}, nil
		}

		userRepo := noopUserRepo()
		var delta int64
		userRepo.incrementFollowersFn = func(_ context.Context, _, _ primitive.ObjectID, d int64) error {
			delta = d
			return nil
		}

		svc := NewFollowService(followRepo, userRepo)
		err := svc.DeleteFollow(context.Background(), FollowPair{
			IDFollower: primitive.NewObjectID(),
			IDFollowed: primitive.NewObjectID(),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(-1), delta)
	})

	t.Run("absent edge is not found", func(t *testing.T) {
		t.Parallel()
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())
		err := svc.DeleteFollow(context.Background(), FollowPair{
			IDFollower: primitive.NewObjectID(),
			IDFollowed: primitive.NewObjectID(),
		})
		assertAppError(t, err, models.ErrCodeNotFound)
	})
}
