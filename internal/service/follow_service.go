package service

import (
	"context"

	"picstream/internal/cache"
	"picstream/internal/middleware"
	"picstream/internal/models"
	"picstream/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// FollowPair identifies a follow edge by its endpoints, the same shape for
// creation and removal.
type FollowPair struct {
	IDFollower primitive.ObjectID `json:"idFollower"`
	IDFollowed primitive.ObjectID `json:"idFollowed"`
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// ListFollowing returns the follow edges a user has created, i.e. the users
// that user follows.
func (s *FollowService) ListFollowing(ctx context.Context, followerID primitive.ObjectID) ([]models.Follow, error) {
	follows, err := s.followRepo.FindByFollower(ctx, followerID)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	return follows, nil
}

// CreateFollow inserts the edge and bumps nbFollow on the follower and
// nbFollowers on the followed user. A repeat follow for the same pair trips
// the unique index and surfaces as a conflict with no counter change.
func (s *FollowService) CreateFollow(ctx context.Context, pair FollowPair) (*models.Follow, error) {
	if pair.IDFollower.IsZero() || pair.IDFollowed.IsZero() {
		return nil, models.NewValidationError("idFollower and idFollowed are required")
	}

	follow := &models.Follow{IDFollower: pair.IDFollower, IDFollowed: pair.IDFollowed}
	if err := s.followRepo.Insert(ctx, follow); err != nil {
		return nil, translateWriteError(err)
	}

	if err := s.userRepo.IncrementFollowCounts(ctx, pair.IDFollower, pair.IDFollowed, 1); err != nil {
		middleware.Logger.WarnContext(ctx, "follow counter bump failed",
			"follower_id", pair.IDFollower.Hex(), "followed_id", pair.IDFollowed.Hex(), "error", err)
	}
	cache.Invalidate(ctx, cache.UserKey(pair.IDFollower.Hex()), cache.UserKey(pair.IDFollowed.Hex()))

	return follow, nil
}

// DeleteFollow removes the edge for the pair and decrements both counters.
// Unfollowing an absent edge is a not-found, and the counters stay put.
func (s *FollowService) DeleteFollow(ctx context.Context, pair FollowPair) error {
	if pair.IDFollower.IsZero() || pair.IDFollowed.IsZero() {
		return models.NewValidationError("idFollower and idFollowed are required")
	}

	removed, err := s.followRepo.FindAndRemove(ctx, pair.IDFollower, pair.IDFollowed)
	if err != nil {
		return models.NewUnprocessableError(err)
	}
	if removed == nil {
		return models.NewNotFoundError("follow", pair.IDFollower.Hex()+"->"+pair.IDFollowed.Hex())
	}

	if err := s.userRepo.IncrementFollowCounts(ctx, pair.IDFollower, pair.IDFollowed, -1); err != nil {
		middleware.Logger.WarnContext(ctx, "follow counter decrement failed",
			"follower_id", pair.IDFollower.Hex(), "followed_id", pair.IDFollowed.Hex(), "error", err)
	}
	cache.Invalidate(ctx, cache.UserKey(pair.IDFollower.Hex()), cache.UserKey(pair.IDFollowed.Hex()))

	return nil
}
