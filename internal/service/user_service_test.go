package service

import (
	"context"
	"testing"

	"picstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register_Defaults(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	var inserted *models.User
	repo.insertFn = func(_ context.Context, u *models.User) error {
		inserted = u
		return nil
	}

	svc := NewUserService(repo)
	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	require.NotNil(t, inserted)

	assert.Equal(t, models.DefaultProfilePicture, user.ProfilePicture)
	assert.Equal(t, "", user.Description)
	assert.Equal(t, int64(0), user.NbFollow)
	assert.Equal(t, int64(0), user.NbFollowers)
	assert.False(t, user.IsPrivate)

	assert.NotEqual(t, "s3cret-password", inserted.Password, "password must be stored hashed")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.Password), []byte("s3cret-password")))
	cost, err := bcrypt.Cost([]byte(inserted.Password))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.insertFn = func(context.Context, *models.User) error {
		return duplicateKeyErr()
	}

	svc := NewUserService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	assertAppError(t, err, models.ErrCodeConflict)
}

func TestUserService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{Username: "al", Email: "a@b.co", Password: "s3cret-password"})
	assertAppError(t, err, models.ErrCodeValidation)

	_, err = svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "nope", Password: "s3cret-password"})
	assertAppError(t, err, models.ErrCodeValidation)

	_, err = svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@b.co", Password: "short"})
	assertAppError(t, err, models.ErrCodeValidation)
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Parallel()

	t.Run("password is re-hashed when provided", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var appliedSet bson.M
		repo.updateByUsernameFn = func(_ context.Context, username string, set bson.M) (*models.User, error) {
			appliedSet = set
			return &models.User{ID: primitive.NewObjectID(), Username: username}, nil
		}

		svc := NewUserService(repo)
		newPassword := "brand-new-password"
		_, err := svc.UpdateUser(context.Background(), "alice", UpdateUserInput{Password: &newPassword})
		require.NoError(t, err)

		stored, ok := appliedSet["password"].(string)
		require.True(t, ok, "password must be present in the update set")
		assert.NotEqual(t, newPassword, stored)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte(newPassword)))
	})

	t.Run("absent password leaves the hash untouched", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var appliedSet bson.M
		repo.updateByUsernameFn = func(_ context.Context, username string, set bson.M) (*models.User, error) {
			appliedSet = set
			return &models.User{ID: primitive.NewObjectID(), Username: username}, nil
		}

		svc := NewUserService(repo)
		desc := "new bio"
		_, err := svc.UpdateUser(context.Background(), "alice", UpdateUserInput{Description: &desc})
		require.NoError(t, err)

		assert.NotContains(t, appliedSet, "password")
		assert.Equal(t, "new bio", appliedSet["description"])
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		svc := NewUserService(repo)
		desc := "x"
		_, err := svc.UpdateUser(context.Background(), "ghost", UpdateUserInput{Description: &desc})
		assertAppError(t, err, models.ErrCodeNotFound)
	})

	t.Run("empty update is a validation error", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateUser(context.Background(), "alice", UpdateUserInput{})
		assertAppError(t, err, models.ErrCodeValidation)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing user", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.findByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: primitive.NewObjectID(), Username: username}, nil
		}
		repo.deleteByUsernameFn = func(context.Context, string) (int64, error) { return 1, nil }

		svc := NewUserService(repo)
		require.NoError(t, svc.DeleteUser(context.Background(), "alice"))
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		err := svc.DeleteUser(context.Background(), "ghost")
		assertAppError(t, err, models.ErrCodeNotFound)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret-password"), BcryptCost)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.findByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: primitive.NewObjectID(), Username: username, Password: string(hashed)}, nil
		}

		svc := NewUserService(repo)
		user, err := svc.Authenticate(context.Background(), "alice", "s3cret-password")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.findByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			if username == "alice" {
				return &models.User{Username: username, Password: string(hashed)}, nil
			}
			return nil, nil
		}

		svc := NewUserService(repo)
		_, badPass := svc.Authenticate(context.Background(), "alice", "wrong")
		_, noUser := svc.Authenticate(context.Background(), "ghost", "whatever")

		assertAppError(t, badPass, models.ErrCodeUnauthorized)
		assertAppError(t, noUser, models.ErrCodeUnauthorized)

		var a, b *models.AppError
		require.ErrorAs(t, badPass, &a)
		require.ErrorAs(t, noUser, &b)
		assert.Equal(t, a.Message, b.Message)
	})
}
