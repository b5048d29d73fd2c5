package service

import (
	"context"
	"errors"
	"testing"

	"picstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Function-field stubs for the repository interfaces. Each noop constructor
// returns a stub whose methods succeed with empty results; tests override
// only the calls they care about.

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

// duplicateKeyErr fabricates a driver error that IsDuplicateKeyError accepts.
func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key"}}}
}

type userRepoStub struct {
	findAllFn            func(ctx context.Context, limit, offset int64) ([]models.User, error)
	findByIDFn           func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	findByUsernameFn     func(ctx context.Context, username string) (*models.User, error)
	insertFn             func(ctx context.Context, user *models.User) error
	updateByUsernameFn   func(ctx context.Context, username string, set bson.M) (*models.User, error)
	deleteByUsernameFn   func(ctx context.Context, username string) (int64, error)
	incrementFollowersFn func(ctx context.Context, followerID, followedID primitive.ObjectID, delta int64) error
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		findAllFn:            func(context.Context, int64, int64) ([]models.User, error) { return []models.User{}, nil },
		findByIDFn:           func(context.Context, primitive.ObjectID) (*models.User, error) { return nil, nil },
		findByUsernameFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		insertFn:             func(context.Context, *models.User) error { return nil },
		updateByUsernameFn:   func(context.Context, string, bson.M) (*models.User, error) { return nil, nil },
		deleteByUsernameFn:   func(context.Context, string) (int64, error) { return 0, nil },
		incrementFollowersFn: func(context.Context, primitive.ObjectID, primitive.ObjectID, int64) error { return nil },
	}
}

func (s *userRepoStub) FindAll(ctx context.Context, limit, offset int64) ([]models.User, error) {
	return s.findAllFn(ctx, limit, offset)
}
func (s *userRepoStub) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findByIDFn(ctx, id)
}
func (s *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findByUsernameFn(ctx, username)
}
func (s *userRepoStub) Insert(ctx context.Context, user *models.User) error {
	return s.insertFn(ctx, user)
}
func (s *userRepoStub) UpdateByUsername(ctx context.Context, username string, set bson.M) (*models.User, error) {
	return s.updateByUsernameFn(ctx, username, set)
}
func (s *userRepoStub) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	return s.deleteByUsernameFn(ctx, username)
}
func (s *userRepoStub) IncrementFollowCounts(ctx context.Context, followerID, followedID primitive.ObjectID, delta int64) error {
	return s.incrementFollowersFn(ctx, followerID, followedID, delta)
}

type postRepoStub struct {
	findAllFn           func(ctx context.Context, limit, offset int64) ([]models.Post, error)
	findByAuthorFn      func(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error)
	findByIDFn          func(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	insertFn            func(ctx context.Context, post *models.Post) error
	updateFn            func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Post, error)
	deleteFn            func(ctx context.Context, id primitive.ObjectID) (int64, error)
	incrementLikesFn    func(ctx context.Context, id primitive.ObjectID, delta int64) error
	incrementCommentsFn func(ctx context.Context, id primitive.ObjectID, delta int64) error
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		findAllFn:           func(context.Context, int64, int64) ([]models.Post, error) { return []models.Post{}, nil },
		findByAuthorFn:      func(context.Context, primitive.ObjectID) ([]models.Post, error) { return []models.Post{}, nil },
		findByIDFn:          func(context.Context, primitive.ObjectID) (*models.Post, error) { return nil, nil },
		insertFn:            func(context.Context, *models.Post) error { return nil },
		updateFn:            func(context.Context, primitive.ObjectID, bson.M) (*models.Post, error) { return nil, nil },
		deleteFn:            func(context.Context, primitive.ObjectID) (int64, error) { return 0, nil },
		incrementLikesFn:    func(context.Context, primitive.ObjectID, int64) error { return nil },
		incrementCommentsFn: func(context.Context, primitive.ObjectID, int64) error { return nil },
	}
}

func (s *postRepoStub) FindAll(ctx context.Context, limit, offset int64) ([]models.Post, error) {
	return s.findAllFn(ctx, limit, offset)
}
func (s *postRepoStub) FindByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	return s.findByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return s.findByIDFn(ctx, id)
}
func (s *postRepoStub) Insert(ctx context.Context, post *models.Post) error {
	return s.insertFn(ctx, post)
}
func (s *postRepoStub) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Post, error) {
	return s.updateFn(ctx, id, set)
}
func (s *postRepoStub) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return s.incrementLikesFn(ctx, id, delta)
}
func (s *postRepoStub) IncrementComments(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return s.incrementCommentsFn(ctx, id, delta)
}

type commentRepoStub struct {
	findByIDFn   func(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	findByPostFn func(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	insertFn     func(ctx context.Context, comment *models.Comment) error
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		findByIDFn:   func(context.Context, primitive.ObjectID) (*models.Comment, error) { return nil, nil },
		findByPostFn: func(context.Context, primitive.ObjectID) ([]models.Comment, error) { return []models.Comment{}, nil },
		insertFn:     func(context.Context, *models.Comment) error { return nil },
	}
}

func (s *commentRepoStub) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	return s.findByIDFn(ctx, id)
}
func (s *commentRepoStub) FindByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	return s.findByPostFn(ctx, postID)
}
func (s *commentRepoStub) Insert(ctx context.Context, comment *models.Comment) error {
	return s.insertFn(ctx, comment)
}

type likeRepoStub struct {
	findByLikerFn   func(ctx context.Context, likerID primitive.ObjectID) ([]models.Like, error)
	insertFn        func(ctx context.Context, like *models.Like) error
	findAndRemoveFn func(ctx context.Context, likerID, likedID primitive.ObjectID) (*models.Like, error)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		findByLikerFn: func(context.Context, primitive.ObjectID) ([]models.Like, error) { return []models.Like{}, nil },
		insertFn:      func(context.Context, *models.Like) error { return nil },
		findAndRemoveFn: func(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.Like, error) {
			return nil, nil
		},
	}
}

func (s *likeRepoStub) FindByLiker(ctx context.Context, likerID primitive.ObjectID) ([]models.Like, error) {
	return s.findByLikerFn(ctx, likerID)
}
func (s *likeRepoStub) Insert(ctx context.Context, like *models.Like) error {
	return s.insertFn(ctx, like)
}
func (s *likeRepoStub) FindAndRemove(ctx context.Context, likerID, likedID primitive.ObjectID) (*models.Like, error) {
	return s.findAndRemoveFn(ctx, likerID, likedID)
}

type followRepoStub struct {
	findByFollowerFn func(ctx context.Context, followerID primitive.ObjectID) ([]models.Follow, error)
	insertFn         func(ctx context.Context, follow *models.Follow) error
	findAndRemoveFn  func(ctx context.Context, followerID, followedID primitive.ObjectID) (*models.Follow, error)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		findByFollowerFn: func(context.Context, primitive.ObjectID) ([]models.Follow, error) { return []models.Follow{}, nil },
		insertFn:         func(context.Context, *models.Follow) error { return nil },
		findAndRemoveFn: func(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.Follow, error) {
			return nil, nil
		},
	}
}

func (s *followRepoStub) FindByFollower(ctx context.Context, followerID primitive.ObjectID) ([]models.Follow, error) {
	return s.findByFollowerFn(ctx, followerID)
}
func (s *followRepoStub) Insert(ctx context.Context, follow *models.Follow) error {
	return s.insertFn(ctx, follow)
}
func (s *followRepoStub) FindAndRemove(ctx context.Context, followerID, followedID primitive.ObjectID) (*models.Follow, error) {
	return s.findAndRemoveFn(ctx, followerID, followedID)
}

type notificationRepoStub struct {
	findByRecipientFn func(ctx context.Context, recipientID primitive.ObjectID) ([]models.Notification, error)
	insertFn          func(ctx context.Context, notification *models.Notification) error
	markReadFn        func(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		findByRecipientFn: func(context.Context, primitive.ObjectID) ([]models.Notification, error) {
			return []models.Notification{}, nil
		},
		insertFn:   func(context.Context, *models.Notification) error { return nil },
		markReadFn: func(context.Context, primitive.ObjectID) (*models.Notification, error) { return nil, nil },
	}
}

func (s *notificationRepoStub) FindByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Notification, error) {
	return s.findByRecipientFn(ctx, recipientID)
}
func (s *notificationRepoStub) Insert(ctx context.Context, notification *models.Notification) error {
	return s.insertFn(ctx, notification)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	return s.markReadFn(ctx, id)
}

type chatRepoStub struct {
	findBetweenFn       func(ctx context.Context, a, b primitive.ObjectID) ([]models.ChatMessage, error)
	findConversationsFn func(ctx context.Context, userID primitive.ObjectID) ([]models.ChatMessage, error)
	insertFn            func(ctx context.Context, msg *models.ChatMessage) error
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		findBetweenFn: func(context.Context, primitive.ObjectID, primitive.ObjectID) ([]models.ChatMessage, error) {
			return []models.ChatMessage{}, nil
		},
		findConversationsFn: func(context.Context, primitive.ObjectID) ([]models.ChatMessage, error) {
			return []models.ChatMessage{}, nil
		},
		insertFn: func(context.Context, *models.ChatMessage) error { return nil },
	}
}

func (s *chatRepoStub) FindBetween(ctx context.Context, a, b primitive.ObjectID) ([]models.ChatMessage, error) {
	return s.findBetweenFn(ctx, a, b)
}
func (s *chatRepoStub) FindConversations(ctx context.Context, userID primitive.ObjectID) ([]models.ChatMessage, error) {
	return s.findConversationsFn(ctx, userID)
}
func (s *chatRepoStub) Insert(ctx context.Context, msg *models.ChatMessage) error {
	return s.insertFn(ctx, msg)
}
