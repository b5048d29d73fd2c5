// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"picstream/internal/models"
	"picstream/internal/repository"
	"picstream/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// Factory builds domain entities and persists them through the repositories,
// so seeded data goes through the same write paths as the API.
type Factory struct {
	users         repository.UserRepository
	posts         repository.PostRepository
	comments      repository.CommentRepository
	likes         repository.LikeRepository
	follows       repository.FollowRepository
	notifications repository.NotificationRepository
	chats         repository.ChatRepository

	rand *rand.Rand
}

// NewFactory creates a Factory bound to the given repositories.
func NewFactory(
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	likes repository.LikeRepository,
	follows repository.FollowRepository,
	notifications repository.NotificationRepository,
	chats repository.ChatRepository,
) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		users:         users,
		posts:         posts,
		comments:      comments,
		likes:         likes,
		follows:       follows,
		notifications: notifications,
		chats:         chats,
		// #nosec G404: weak randomness is fine for seeding
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// seedPassword is the shared password of every seeded account.
const seedPassword = "password123"

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), service.BcryptCost)
	if err != nil {
		return nil, err
	}

	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	user := &models.User{
		Username:       username,
		Email:          gofakeit.Email(),
		Password:       string(hashed),
		Description:    gofakeit.Sentence(10),
		ProfilePicture: models.DefaultProfilePicture,
		IsPrivate:      f.rand.Float32() < 0.2,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user.
// Counters start at zero; likes and comments bump them afterwards.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	mediaType := models.MediaTypeImage
	media := fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	if f.rand.Float32() < 0.1 {
		mediaType = models.MediaTypeVideo
		media = fmt.Sprintf("/video_%s.mp4", gofakeit.LetterN(8))
	}

	post := &models.Post{
		IDAuthor:    author.ID,
		Media:       media,
		MediaType:   mediaType,
		Description: gofakeit.Sentence(8),
	}
	if f.rand.Float32() < 0.5 {
		post.Location = gofakeit.City()
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.posts.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment from user on post and bumps the post's
// comment counter so the denormalized count matches the collection.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		IDPost:   post.ID,
		IDAuthor: author.ID,
		Content:  gofakeit.Sentence(8),
	}
	if err := f.comments.Insert(ctx, comment); err != nil {
		return nil, err
	}
	if err := f.posts.IncrementComments(ctx, post.ID, 1); err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from user on post and bumps the post's like
// counter. Duplicate pairs surface as unique index violations.
func (f *Factory) CreateLike(ctx context.Context, user *models.User, post *models.Post) error {
	like := &models.Like{IDLiker: user.ID, IDLiked: post.ID}
	if err := f.likes.Insert(ctx, like); err != nil {
		return err
	}
	return f.posts.IncrementLikes(ctx, post.ID, 1)
}

// CreateFollow persists a follow edge and adjusts both users' counters.
func (f *Factory) CreateFollow(ctx context.Context, follower, followed *models.User) error {
	follow := &models.Follow{IDFollower: follower.ID, IDFollowed: followed.ID}
	if err := f.follows.Insert(ctx, follow); err != nil {
		return err
	}
	return f.users.IncrementFollowCounts(ctx, follower.ID, followed.ID, 1)
}

// CreateNotification persists a notification addressed to recipient about
// the given entity.
func (f *Factory) CreateNotification(ctx context.Context, author *models.User, recipient *models.User, notifType string, content *models.Post) error {
	notification := &models.Notification{
		Author:    author.Username,
		Recipient: recipient.ID,
		Content:   content.ID,
		Type:      notifType,
		Date:      time.Now().Add(-time.Duration(f.rand.Intn(72)) * time.Hour).UnixMilli(),
		IsRead:    f.rand.Float32() < 0.5,
	}
	return f.notifications.Insert(ctx, notification)
}

// CreateChatMessage persists a direct message from src to dst.
func (f *Factory) CreateChatMessage(ctx context.Context, src, dst *models.User) error {
	message := &models.ChatMessage{
		Src:     src.ID,
		Dst:     dst.ID,
		Author:  src.Username,
		Message: gofakeit.Sentence(10),
	}
	return f.chats.Insert(ctx, message)
}
