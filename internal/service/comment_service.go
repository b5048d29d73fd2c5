package service

import (
	"context"

	"picstream/internal/cache"
	"picstream/internal/middleware"
	"picstream/internal/models"
	"picstream/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	IDPost   primitive.ObjectID `json:"idPost"`
	IDAuthor primitive.ObjectID `json:"idAuthor"`
	Content  string             `json:"content"`
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

func (s *CommentService) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	if comment == nil {
		return nil, models.NewNotFoundError("comment", id.Hex())
	}
	return comment, nil
}

func (s *CommentService) ListCommentsByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	comments, err := s.commentRepo.FindByPost(ctx, postID)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	return comments, nil
}

// CreateComment stores the comment, then bumps the post's nbComments counter
// atomically. The referenced post is not required to exist: a comment on a
// deleted post is stored and the counter bump simply matches nothing.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.IDPost.IsZero() || in.IDAuthor.IsZero() {
		return nil, models.NewValidationError("idPost and idAuthor are required")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("content is required")
	}

	comment := &models.Comment{
		IDPost:   in.IDPost,
		IDAuthor: in.IDAuthor,
		Content:  in.Content,
	}

	if err := s.commentRepo.Insert(ctx, comment); err != nil {
		return nil, translateWriteError(err)
	}

	if err := s.postRepo.IncrementComments(ctx, in.IDPost, 1); err != nil {
		middleware.Logger.WarnContext(ctx, "comment counter bump failed",
			"post_id", in.IDPost.Hex(), "error", err)
	}
	cache.InvalidatePost(ctx, in.IDPost.Hex())

	return comment, nil
}
