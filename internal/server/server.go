// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	_ "picstream/docs" // swagger docs
	"picstream/internal/cache"
	"picstream/internal/config"
	"picstream/internal/database"
	"picstream/internal/middleware"
	"picstream/internal/models"
	"picstream/internal/notifications"
	"picstream/internal/repository"
	"picstream/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	tokenIssuer   = "picstream-api"
	tokenAudience = "picstream-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *mongo.Database
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	commentRepo      repository.CommentRepository
	likeRepo         repository.LikeRepository
	followRepo       repository.FollowRepository
	notificationRepo repository.NotificationRepository
	chatRepo         repository.ChatRepository

	userService         *service.UserService
	postService         *service.PostService
	commentService      *service.CommentService
	likeService         *service.LikeService
	followService       *service.FollowService
	notificationService *service.NotificationService
	chatService         *service.ChatService
	mediaService        *service.MediaService

	notifier *notifications.Notifier
	chatHub  *notifications.ChatHub
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *mongo.Database, redisClient *redis.Client) (*Server, error) {
	prom := middleware.InitMetrics("picstream-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
	}

	if db != nil {
		server.userRepo = repository.NewUserRepository(db)
		server.postRepo = repository.NewPostRepository(db)
		server.commentRepo = repository.NewCommentRepository(db)
		server.likeRepo = repository.NewLikeRepository(db)
		server.followRepo = repository.NewFollowRepository(db)
		server.notificationRepo = repository.NewNotificationRepository(db)
		server.chatRepo = repository.NewChatRepository(db)
	}

	server.userService = service.NewUserService(server.userRepo)
	server.postService = service.NewPostService(server.postRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo)
	server.likeService = service.NewLikeService(server.likeRepo, server.postRepo)
	server.followService = service.NewFollowService(server.followRepo, server.userRepo)
	server.notificationService = service.NewNotificationService(server.notificationRepo)
	server.chatService = service.NewChatService(server.chatRepo)
	server.mediaService = service.NewMediaService(cfg)

	server.chatHub = notifications.NewChatHub()
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:4200,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Picstream Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Served media files
	app.Static("/", s.config.UploadDir)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Account creation is the only unauthenticated write.
	api.Post("/users", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.CreateUser)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes. The /id/:id form avoids ambiguity with usernames.
	users := protected.Group("/users")
	users.Get("/", s.GetUsers)
	users.Get("/id/:id", s.GetUserByID)
	users.Get("/:username", s.GetUserByUsername)
	users.Patch("/:username", s.UpdateUser)
	users.Delete("/:username", s.DeleteUser)

	// Post routes. Specific /user/:id route before generic /:id.
	posts := protected.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/user/:id", s.GetPostsByAuthor)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Patch("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Comment routes. Specific /post/:id route before generic /:id.
	comments := protected.Group("/comments")
	comments.Get("/post/:id", s.GetCommentsByPost)
	comments.Get("/:id", s.GetComment)
	comments.Post("/", middleware.RateLimit(
		s.redis, 30, time.Minute, "create_comment"), s.CreateComment)

	// Like routes: the pair travels in the body for both create and delete.
	likes := protected.Group("/likes")
	likes.Get("/:id", s.GetLikesByUser)
	likes.Post("/", s.CreateLike)
	likes.Delete("/", s.DeleteLike)

	// Follow routes, same shape as likes.
	follows := protected.Group("/follows")
	follows.Get("/:id", s.GetFollowing)
	follows.Post("/", s.CreateFollow)
	follows.Delete("/", s.DeleteFollow)

	// Notification routes
	notificationsGroup := protected.Group("/notifications")
	notificationsGroup.Get("/:id", s.GetNotifications)
	notificationsGroup.Post("/", s.CreateNotification)
	notificationsGroup.Patch("/:id", s.MarkNotificationRead)

	// Chat routes. The two-segment conversation route before the generic one.
	chats := protected.Group("/chats")
	chats.Get("/:src/:dst", s.GetConversation)
	chats.Get("/:id", s.GetConversations)
	chats.Post("/", middleware.RateLimit(
		s.redis, 30, time.Minute, "send_chat"), s.CreateChatMessage)

	// Media upload
	protected.Post("/uploads/media", middleware.RateLimit(
		s.redis, 10, time.Minute, "upload_media"), s.UploadMedia)

	// Websocket endpoint for real-time chat
	ws := api.Group("/ws", s.AuthRequired())
	ws.Get("/chat", s.WebSocketChatHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unavailable"
	} else if err := s.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API runs without Redis; caching and pub/sub are just off.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "picstream",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// WebSocket clients cannot set headers from the browser, so the
		// token may ride in the query string on /api/ws routes.
		if tokenString == "" && strings.HasPrefix(c.Path(), "/api/ws") {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := primitive.ObjectIDFromHex(sub)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", userID)
		c.Locals("username", claims["username"])
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID.Hex())
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Picstream API",
		BodyLimit: s.config.MaxUploadSizeMB * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil {
		if err := s.chatHub.StartWiring(ctx, s.notifier); err != nil {
			middleware.Logger.Warn("chat hub wiring failed, running single-instance", "error", err)
		}
	}

	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and its background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}
	if s.chatHub != nil {
		if err := s.chatHub.Shutdown(ctx); err != nil {
			middleware.Logger.Warn("chat hub shutdown", "error", err)
		}
	}
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			return err
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Warn("redis close", "error", err)
		}
	}
	return database.Disconnect(ctx, s.db)
}
