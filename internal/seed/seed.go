package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"picstream/internal/database"
	"picstream/internal/models"
	"picstream/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with demo data. All denormalized counters
// (post likes, comment counts, follow counts) end up consistent with the
// edge collections because every edge goes through the same increment path
// the API uses.
func Seed(ctx context.Context, db *mongo.Database, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(ctx, db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
		if err := database.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("failed to recreate indexes: %w", err)
		}
	}

	factory := NewFactory(
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewLikeRepository(db),
		repository.NewFollowRepository(db),
		repository.NewNotificationRepository(db),
		repository.NewChatRepository(db),
	)

	users, err := createUsers(ctx, factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	posts, err := createPosts(ctx, factory, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createEngagement(ctx, factory, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	if err := createSocialGraph(ctx, factory, users); err != nil {
		return fmt.Errorf("failed to create social graph: %w", err)
	}
	if err := createChats(ctx, factory, users); err != nil {
		return fmt.Errorf("failed to create chats: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(ctx context.Context, db *mongo.Database) error {
	log.Println("Clearing existing data...")
	collections := []string{
		database.CollUsers, database.CollPosts, database.CollComments,
		database.CollLikes, database.CollFollows, database.CollNotifications,
		database.CollChats,
	}
	for _, name := range collections {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return err
		}
	}
	return nil
}

func createUsers(ctx context.Context, factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// A couple of fixed accounts for manual testing.
	if count >= 2 {
		for _, name := range []string{"alice", "bob"} {
			name := name
			user, err := factory.CreateUser(ctx, func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.IsPrivate = false
			})
			if err != nil {
				log.Printf("Fixed account %q already present, skipping", name)
				continue
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser(ctx)
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}
	return users, nil
}

func createPosts(ctx context.Context, factory *Factory, users []*models.User, count int) ([]*models.Post, error) {
	// #nosec G404: weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]*models.Post, 0, count)

	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		post, err := factory.CreatePost(ctx, author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}
	return posts, nil
}

// createEngagement adds likes and comments. Likers are drawn from a shuffle
// so the (idLiker, idLiked) unique index is never violated.
func createEngagement(ctx context.Context, factory *Factory, users []*models.User, posts []*models.Post) error {
	// #nosec G404: weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		shuffled := make([]*models.User, len(users))
		copy(shuffled, users)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		nbLikes := r.Intn(len(users) + 1)
		for _, liker := range shuffled[:nbLikes] {
			if err := factory.CreateLike(ctx, liker, post); err != nil {
				return err
			}
		}

		nbComments := r.Intn(5)
		for i := 0; i < nbComments; i++ {
			commenter := users[r.Intn(len(users))]
			if _, err := factory.CreateComment(ctx, commenter, post); err != nil {
				return err
			}
			if err := factory.CreateNotification(ctx, commenter, authorOf(post, users), models.NotificationTypeComment, post); err != nil {
				return err
			}
		}
	}
	return nil
}

func authorOf(post *models.Post, users []*models.User) *models.User {
	for _, u := range users {
		if u.ID == post.IDAuthor {
			return u
		}
	}
	return users[0]
}

// createSocialGraph adds follow edges between distinct users. Each user
// follows a random subset of the others, again via a shuffle to stay within
// the unique (idFollower, idFollowed) constraint.
func createSocialGraph(ctx context.Context, factory *Factory, users []*models.User) error {
	// #nosec G404: weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, follower := range users {
		candidates := make([]*models.User, 0, len(users)-1)
		for _, u := range users {
			if u.ID != follower.ID {
				candidates = append(candidates, u)
			}
		}
		r.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

		nbFollows := r.Intn(len(candidates) + 1)
		for _, followed := range candidates[:nbFollows] {
			if err := factory.CreateFollow(ctx, follower, followed); err != nil {
				return err
			}
		}
	}
	return nil
}

func createChats(ctx context.Context, factory *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	// #nosec G404: weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	nbMessages := len(users) * 5
	for i := 0; i < nbMessages; i++ {
		src := users[r.Intn(len(users))]
		dst := users[r.Intn(len(users))]
		if src.ID == dst.ID {
			continue
		}
		if err := factory.CreateChatMessage(ctx, src, dst); err != nil {
			return err
		}
	}
	return nil
}
