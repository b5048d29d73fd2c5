// Package service holds the business rules on top of the repositories:
// defaulting on create, password hashing, counter maintenance, and the
// translation of raw store outcomes into typed application errors.
package service

import (
	"context"

	"picstream/internal/cache"
	"picstream/internal/models"
	"picstream/internal/repository"
	"picstream/internal/validation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for password hashing.
const BcryptCost = 10

type UserService struct {
	userRepo repository.UserRepository
}

// RegisterInput carries the caller-supplied fields for account creation.
// Profile fields absent here are forced to their defaults on create.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput carries the updatable profile fields. Pointer fields
// distinguish "not provided" from an explicit zero value.
type UpdateUserInput struct {
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	Description    *string `json:"description"`
	ProfilePicture *string `json:"profilePicture"`
	IsPrivate      *bool   `json:"isPrivate"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// translateWriteError classifies a raw store error from a write: unique index
// violations become conflicts, everything else is unprocessable.
func translateWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return models.NewConflictError("Resource already exists")
	}
	return models.NewUnprocessableError(err)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int64) ([]models.User, error) {
	users, err := s.userRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	return users, nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User
	err := cache.Aside(ctx, cache.UserByNameKey(username), &user, cache.UserTTL, func() error {
		found, repoErr := s.userRepo.FindByUsername(ctx, username)
		if repoErr != nil {
			return models.NewUnprocessableError(repoErr)
		}
		if found == nil {
			return models.NewNotFoundError("user", username)
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user *models.User
	err := cache.Aside(ctx, cache.UserKey(id.Hex()), &user, cache.UserTTL, func() error {
		found, repoErr := s.userRepo.FindByID(ctx, id)
		if repoErr != nil {
			return models.NewUnprocessableError(repoErr)
		}
		if found == nil {
			return models.NewNotFoundError("user", id.Hex())
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates a new account. Profile fields are forced to their
// defaults no matter what the client sent; a username or email collision
// surfaces as a conflict from the unique indexes, not from a pre-check.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hashed),
		Description:    "",
		ProfilePicture: models.DefaultProfilePicture,
		NbFollow:       0,
		NbFollowers:    0,
		IsPrivate:      false,
	}

	if err := s.userRepo.Insert(ctx, user); err != nil {
		return nil, translateWriteError(err)
	}
	return user, nil
}

// UpdateUser applies a partial update keyed by username. A provided password
// is re-hashed before storage; counters are not updatable through this path.
func (s *UserService) UpdateUser(ctx context.Context, username string, in UpdateUserInput) (*models.User, error) {
	set := bson.M{}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, err
		}
		set["email"] = *in.Email
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), BcryptCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		set["password"] = string(hashed)
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.ProfilePicture != nil {
		set["profilePicture"] = *in.ProfilePicture
	}
	if in.IsPrivate != nil {
		set["isPrivate"] = *in.IsPrivate
	}
	if len(set) == 0 {
		return nil, models.NewValidationError("No updatable fields provided")
	}

	user, err := s.userRepo.UpdateByUsername(ctx, username, set)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("user", username)
	}

	cache.InvalidateUser(ctx, user.ID.Hex(), user.Username)
	return user, nil
}

// DeleteUser removes the account document only. Posts, comments, likes,
// follows and messages referencing the user stay behind as dangling
// references readers must tolerate.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return models.NewUnprocessableError(err)
	}
	if user == nil {
		return models.NewNotFoundError("user", username)
	}

	count, err := s.userRepo.DeleteByUsername(ctx, username)
	if err != nil {
		return models.NewUnprocessableError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("user", username)
	}

	cache.InvalidateUser(ctx, user.ID.Hex(), user.Username)
	return nil
}

// Authenticate verifies credentials for login. Both an unknown username and
// a bad password yield the same unauthorized error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}
