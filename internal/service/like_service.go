package service

import (
	"context"

	"picstream/internal/cache"
	"picstream/internal/middleware"
	"picstream/internal/models"
	"picstream/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
}

// LikePair identifies a like edge by its endpoints, the same shape for
// creation and removal.
type LikePair struct {
	IDLiker primitive.ObjectID `json:"idLiker"`
	IDLiked primitive.ObjectID `json:"idLiked"`
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, postRepo: postRepo}
}

// ListLikesByUser returns the like edges a user has created, i.e. the posts
// that user liked.
func (s *LikeService) ListLikesByUser(ctx context.Context, likerID primitive.ObjectID) ([]models.Like, error) {
	likes, err := s.likeRepo.FindByLiker(ctx, likerID)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	return likes, nil
}

// CreateLike inserts the edge and bumps the post's likes counter. A repeat
// like for the same pair trips the unique index and surfaces as a conflict
// with no counter change.
func (s *LikeService) CreateLike(ctx context.Context, pair LikePair) (*models.Like, error) {
	if pair.IDLiker.IsZero() || pair.IDLiked.IsZero() {
		return nil, models.NewValidationError("idLiker and idLiked are required")
	}

	like := &models.Like{IDLiker: pair.IDLiker, IDLiked: pair.IDLiked}
	if err := s.likeRepo.Insert(ctx, like); err != nil {
		return nil, translateWriteError(err)
	}

	if err := s.postRepo.IncrementLikes(ctx, pair.IDLiked, 1); err != nil {
		middleware.Logger.WarnContext(ctx, "like counter bump failed",
			"post_id", pair.IDLiked.Hex(), "error", err)
	}
	cache.InvalidatePost(ctx, pair.IDLiked.Hex())

	return like, nil
}

// DeleteLike removes the edge for the pair and decrements the post's counter.
// Unliking an absent edge is a not-found, and the counter stays put.
func (s *LikeService) DeleteLike(ctx context.Context, pair LikePair) error {
	if pair.IDLiker.IsZero() || pair.IDLiked.IsZero() {
		return models.NewValidationError("idLiker and idLiked are required")
	}

	removed, err := s.likeRepo.FindAndRemove(ctx, pair.IDLiker, pair.IDLiked)
	if err != nil {
		return models.NewUnprocessableError(err)
	}
	if removed == nil {
		return models.NewNotFoundError("like", pair.IDLiker.Hex()+"->"+pair.IDLiked.Hex())
	}

	if err := s.postRepo.IncrementLikes(ctx, pair.IDLiked, -1); err != nil {
		middleware.Logger.WarnContext(ctx, "like counter decrement failed",
			"post_id", pair.IDLiked.Hex(), "error", err)
	}
	cache.InvalidatePost(ctx, pair.IDLiked.Hex())

	return nil
}
