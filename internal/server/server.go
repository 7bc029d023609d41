// Package server contains the HTTP handlers for the Alley API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"alley/internal/cache"
	"alley/internal/config"
	"alley/internal/database"
	"alley/internal/featureflags"
	"alley/internal/middleware"
	"alley/internal/models"
	"alley/internal/repository"
	"alley/internal/service"
	"alley/internal/storage"

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
	cache          *cache.Store
	store          storage.Store
	featureFlags   *featureflags.Flags
	userService    *service.UserService
	artworkService *service.ArtworkService
	socialService  *service.SocialService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(context.Background(), cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching and per-route rate limits are then off.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("storage setup failed: %w", err)
	}

	cacheStore := cache.New(redisClient)
	flags := featureflags.Parse(cfg.FeatureFlags)

	userRepo := repository.NewUserRepository(db, cacheStore)
	artworkRepo := repository.NewArtworkRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	socialRepo := repository.NewSocialRepository(db)

	images := service.NewImageService(store, flags, cfg)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("alley-api"),
		cache:          cacheStore,
		store:          store,
		featureFlags:   flags,
		userService:    service.NewUserService(userRepo, images, cacheStore),
		artworkService: service.NewArtworkService(artworkRepo, commentRepo, images, cacheStore),
		socialService:  service.NewSocialService(socialRepo, artworkRepo, userRepo),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Propagates request and trace ids into the user context.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Images are loaded cross-origin by the client.
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
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

	app.Use(s.ResolveUser())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Welcome)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	if !s.config.IsProduction() {
		app.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "Alley Backend Metrics"}))
	}

	if local, ok := s.store.(*storage.LocalStore); ok {
		for _, dir := range []string{service.ThumbnailDir, service.ImageDir, service.AvatarDir} {
			app.Static("/"+dir, filepath.Join(local.Dir(), dir), fiber.Static{MaxAge: 3600})
		}
	}

	authed := s.requireUser()

	artwork := app.Group("/artwork")
	artwork.Get("/gallery", s.GetGallery)
	artwork.Get("/search", middleware.RateLimit(s.redis, 30, time.Minute, "search"), s.SearchArtworks)
	artwork.Post("/upload", authed,
		middleware.RateLimit(s.redis, 10, 10*time.Minute, "upload"), s.UploadArtwork)
	// Specific /art/:id/:resource routes before the generic /art/:id routes.
	artwork.Get("/art/:id/comments", s.GetComments)
	artwork.Post("/art/:id/comments", authed,
		middleware.RateLimit(s.redis, 5, time.Minute, "comment"), s.CreateComment)
	artwork.Get("/art/:id/like", authed, s.GetLikeStatus)
	artwork.Post("/art/:id/like", authed, s.LikeArtwork)
	artwork.Delete("/art/:id/like", authed, s.UnlikeArtwork)
	artwork.Get("/art/:id", s.GetArtwork)
	artwork.Patch("/art/:id", authed, s.UpdateArtwork)
	artwork.Delete("/art/:id", authed, s.DeleteArtwork)

	user := app.Group("/user")
	user.Post("/sign-up", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.SignUp)
	user.Post("/sign-in", middleware.RateLimit(s.redis, 10, 5*time.Minute, "signin"), s.SignIn)
	user.Get("/search", middleware.RateLimit(s.redis, 30, time.Minute, "search"), s.SearchArtists)
	user.Get("/profile", authed, s.GetProfile)
	user.Patch("/profile", authed, s.UpdateProfile)
	user.Patch("/profile/avatar", authed, s.UpdateAvatar)
	user.Put("/profile/avatar", authed, s.UpdateAvatar)
	user.Post("/change-password", authed, s.ChangePassword)
	user.Delete("/delete-account", authed, s.DeleteAccount)
	user.Get("/feature-flags", s.GetFeatureFlags)

	artist := user.Group("/artist")
	artist.Get("/:id/gallery", s.GetArtistGallery)
	artist.Get("/:id/likes", s.GetArtistLikes)
	artist.Get("/:id/followers", s.GetArtistFollowers)
	artist.Get("/:id/following", s.GetArtistFollowing)
	artist.Get("/:id/follow", authed, s.GetFollowStatus)
	artist.Post("/:id/follow", authed, s.FollowArtist)
	artist.Delete("/:id/follow", authed, s.UnfollowArtist)
	artist.Get("/:id", s.GetArtist)

	app.Use(s.NotFound)
}

// Welcome handles GET /
func (s *Server) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to Alley Backend!"})
}

// NotFound answers every unmatched route.
func (s *Server) NotFound(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("No route found"))
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is only checked
// when it is configured.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	maxUpload := s.config.ImageMaxUploadSizeMB
	if maxUpload <= 0 {
		maxUpload = service.DefaultImageMaxUploadSizeMB
	}

	app := fiber.New(fiber.Config{
		AppName: "Alley API",
		// Room for the multipart envelope around the largest allowed image.
		BodyLimit: (maxUpload + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Message: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
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

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
