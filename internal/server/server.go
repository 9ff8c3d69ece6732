// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"log/slog"
	"time"

	"sharehub/internal/bootstrap"
	"sharehub/internal/config"
	"sharehub/internal/database"
	"sharehub/internal/featureflags"
	"sharehub/internal/feeds"
	"sharehub/internal/middleware"
	"sharehub/internal/models"
	"sharehub/internal/notifications"
	"sharehub/internal/repository"
	"sharehub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	notifier       *notifications.Notifier
	webhook        *notifications.WebhookNotifier
	featureFlags   *featureflags.Manager

	profileService  *service.ProfileService
	postService     *service.PostService
	commentService  *service.CommentService
	bookmarkService *service.BookmarkService
	tagService      *service.TagService
	linkService     *service.ResourceLinkService
	feedService     *service.FeedService
	rankingService  *service.RankingService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, rt.DB, rt.Redis)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	feedRepo := repository.NewRssFeedRepository(db)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	webhook := notifications.NewWebhookNotifier(notifications.WebhookConfig{
		URL:     cfg.WebhookURL,
		Timeout: time.Duration(cfg.WebhookTimeoutSeconds) * time.Second,
	})
	chat := service.NewChatDispatcher(webhook, flags, cfg.AppBaseURL)

	ingester := feeds.NewIngester(postRepo, feedRepo, feeds.Options{
		AuthorID: cfg.RSSAuthorID,
		MaxItems: cfg.RSSMaxItemsPerFeed,
		Timeout:  time.Duration(cfg.RSSFetchTimeoutSeconds) * time.Second,
	})

	profiles := service.NewProfileService(repository.NewProfileRepository(db))

	s := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("sharehub-api"),
		webhook:         webhook,
		featureFlags:    flags,
		profileService:  profiles,
		postService:     service.NewPostService(postRepo, profiles.IsAdmin, chat),
		commentService:  service.NewCommentService(commentRepo, postRepo, profiles.IsAdmin, chat),
		bookmarkService: service.NewBookmarkService(repository.NewBookmarkRepository(db), postRepo),
		tagService:      service.NewTagService(repository.NewTagRepository(db)),
		linkService:     service.NewResourceLinkService(repository.NewResourceLinkRepository(db)),
		feedService:     service.NewFeedService(feedRepo, ingester),
		rankingService:  service.NewRankingService(repository.NewRankingRepository(db)),
	}

	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Sharehub Metrics Dashboard",
	}))

	// Public reads. An optional bearer token personalises liked/bookmarked.
	publicPosts := api.Group("/posts")
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/check-url", s.CheckPostURL)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)

	api.Get("/tags", s.GetTags)

	publicProfiles := api.Group("/profiles")
	publicProfiles.Get("/me", s.AuthRequired(), s.GetMyProfile)
	publicProfiles.Put("/me", s.AuthRequired(), s.UpdateMyProfile)
	publicProfiles.Get("/:id/posts", s.GetProfilePosts)
	publicProfiles.Get("/:id/resource-links", s.GetProfileResourceLinks)
	publicProfiles.Get("/:id", s.GetProfile)

	rankings := api.Group("/rankings", s.FlagRequired(featureflags.Rankings))
	rankings.Get("/posts", s.GetTopPosts)
	rankings.Get("/contributors", s.GetTopContributors)
	rankings.Get("/tags", s.GetTopTags)

	// Auth is scoped per prefix so unknown /api paths still answer 404.
	auth := s.AuthRequired()

	posts := api.Group("/posts", auth)
	posts.Post("/", middleware.RateLimit(s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes before the generic /:id routes
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/comments", middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/bookmark", s.CreateBookmark)
	posts.Delete("/:id/bookmark", s.DeletePostBookmark)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	comments := api.Group("/comments", auth)
	comments.Post("/:id/reactions", middleware.RateLimit(s.redis, 30, time.Minute, "reaction"), s.ToggleReaction)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	bookmarks := api.Group("/bookmarks", auth)
	bookmarks.Get("/", s.GetBookmarks)
	bookmarks.Patch("/:id", s.UpdateBookmark)
	bookmarks.Delete("/:id", s.DeleteBookmark)

	links := api.Group("/resource-links", auth)
	links.Get("/", s.GetMyResourceLinks)
	links.Post("/", s.CreateResourceLink)
	links.Put("/:id", s.UpdateResourceLink)
	links.Delete("/:id", s.DeleteResourceLink)

	rssFeeds := api.Group("/rss-feeds", auth)
	rssFeeds.Get("/", s.GetFeeds)
	rssFeeds.Post("/", s.AdminRequired(), s.CreateFeed)
	rssFeeds.Post("/:id/fetch", s.AdminRequired(), s.FlagRequired(featureflags.RSSIngest), s.FetchFeed)
	rssFeeds.Put("/:id", s.AdminRequired(), s.UpdateFeed)
	rssFeeds.Delete("/:id", s.AdminRequired(), s.DeleteFeed)

	admin := api.Group("/admin", auth, s.AdminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: a
// server started without it reports "disabled" and stays ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
		middleware.Logger.WarnContext(ctx, "readiness: database ping failed", slog.String("error", err.Error()))
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
			middleware.Logger.WarnContext(ctx, "readiness: redis ping failed", slog.String("error", err.Error()))
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
			"webhook":  s.webhook.State(),
		},
		"time": time.Now(),
	})
}

// NewApp builds the Fiber app with middleware and routes but does not listen.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Sharehub API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			return respondError(c, err)
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing sql DB", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
