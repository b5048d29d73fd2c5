package server

import (
	"context"

	"picstream/internal/config"
	"picstream/internal/models"
	"picstream/internal/service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Function-field repository stubs for handler tests. Noop constructors
// succeed with empty results; tests override the calls they exercise.

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

// newTestServer builds a Server over the given stubs with a test config.
func newTestServer(userRepo *userRepoStub, postRepo *postRepoStub, likeRepo *likeRepoStub) *Server {
	cfg := &config.Config{
		Port:      "3000",
		JWTSecret: "unit-test-secret-key-that-is-long-enough",
		Env:       "test",
	}
	s := &Server{config: cfg}
	s.userService = service.NewUserService(userRepo)
	s.postService = service.NewPostService(postRepo)
	s.likeService = service.NewLikeService(likeRepo, postRepo)
	return s
}
