package service

import (
	"context"

	"picstream/internal/cache"
	"picstream/internal/models"
	"picstream/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostService struct {
	postRepo repository.PostRepository
}

// CreatePostInput carries the caller-supplied fields for publishing a post.
// Counters are not accepted from the client; they start at zero.
type CreatePostInput struct {
	IDAuthor    primitive.ObjectID `json:"idAuthor"`
	Media       string             `json:"media"`
	MediaType   string             `json:"mediaType"`
	Description string             `json:"description"`
	Location    string             `json:"location"`
}

// UpdatePostInput carries the updatable post fields. Likes and NbComments
// remain writable here as absolute values so a repeated update converges to
// the same state, unlike the relative adjustments used by the like and
// comment flows.
type UpdatePostInput struct {
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Likes       *int64  `json:"likes"`
	NbComments  *int64  `json:"nbComments"`
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int64) ([]models.Post, error) {
	posts, err := s.postRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	return posts, nil
}

// ListPostsByAuthor returns the author's posts. The author id is not checked
// against the users collection: a deleted account's posts stay readable.
func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	posts, err := s.postRepo.FindByAuthor(ctx, authorID)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	return posts, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post *models.Post
	err := cache.Aside(ctx, cache.PostKey(id.Hex()), &post, cache.PostTTL, func() error {
		found, repoErr := s.postRepo.FindByID(ctx, id)
		if repoErr != nil {
			return models.NewUnprocessableError(repoErr)
		}
		if found == nil {
			return models.NewNotFoundError("post", id.Hex())
		}
		post = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.IDAuthor.IsZero() {
		return nil, models.NewValidationError("idAuthor is required")
	}
	if in.Media == "" {
		return nil, models.NewValidationError("media is required")
	}
	if in.MediaType != models.MediaTypeImage && in.MediaType != models.MediaTypeVideo {
		return nil, models.NewValidationError("mediaType must be 'image' or 'video'")
	}

	post := &models.Post{
		IDAuthor:    in.IDAuthor,
		Media:       in.Media,
		MediaType:   in.MediaType,
		Description: in.Description,
		Location:    in.Location,
		Likes:       0,
		NbComments:  0,
	}

	if err := s.postRepo.Insert(ctx, post); err != nil {
		return nil, translateWriteError(err)
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id primitive.ObjectID, in UpdatePostInput) (*models.Post, error) {
	set := bson.M{}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Location != nil {
		set["location"] = *in.Location
	}
	if in.Likes != nil {
		if *in.Likes < 0 {
			return nil, models.NewValidationError("likes cannot be negative")
		}
		set["likes"] = *in.Likes
	}
	if in.NbComments != nil {
		if *in.NbComments < 0 {
			return nil, models.NewValidationError("nbComments cannot be negative")
		}
		set["nbComments"] = *in.NbComments
	}
	if len(set) == 0 {
		return nil, models.NewValidationError("No updatable fields provided")
	}

	post, err := s.postRepo.Update(ctx, id, set)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if post == nil {
		return nil, models.NewNotFoundError("post", id.Hex())
	}

	cache.InvalidatePost(ctx, id.Hex())
	return post, nil
}

// DeletePost removes the post document only. Comments and likes referencing
// the post are left behind.
func (s *PostService) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	count, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return models.NewUnprocessableError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("post", id.Hex())
	}

	cache.InvalidatePost(ctx, id.Hex())
	return nil
}
