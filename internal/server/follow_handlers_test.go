package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetFollowing(t *testing.T) {
	t.Run("returns the edges where the path user is the follower", func(t *testing.T) {
		alice := primitive.NewObjectID()
		bob := primitive.NewObjectID()

		followRepo := noopFollowRepo()
		var queried primitive.ObjectID
		followRepo.findByFollowerFn = func(_ context.Context, id primitive.ObjectID) ([]models.Follow, error) {
			queried = id
			return []models.Follow{{ID: primitive.NewObjectID(), IDFollower: id, IDFollowed: bob}}, nil
		}

		s := newTestServer(noopUserRepo(), noopPostRepo(), noopLikeRepo())
		s.followService = service.NewFollowService(followRepo, noopUserRepo())

		app := fiber.New()
		app.Get("/follows/:id", s.GetFollowing)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/follows/"+alice.Hex(), nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, alice, queried)

		var follows []models.Follow
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&follows))
		require.Len(t, follows, 1)
		assert.Equal(t, alice, follows[0].IDFollower)
		assert.Equal(t, bob, follows[0].IDFollowed)
	})

	t.Run("user following nobody is a 200 with an empty array", func(t *testing.T) {
		s := newTestServer(noopUserRepo(), noopPostRepo(), noopLikeRepo())
		s.followService = service.NewFollowService(noopFollowRepo(), noopUserRepo())

		app := fiber.New()
		app.Get("/follows/:id", s.GetFollowing)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/follows/"+primitive.NewObjectID().Hex(), nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var follows []models.Follow
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&follows))
		assert.Len(t, follows, 0)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		s := newTestServer(noopUserRepo(), noopPostRepo(), noopLikeRepo())
		s.followService = service.NewFollowService(noopFollowRepo(), noopUserRepo())

		app := fiber.New()
		app.Get("/follows/:id", s.GetFollowing)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/follows/not-an-id", nil))
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
