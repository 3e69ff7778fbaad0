// Package router wires the dependency graph: repositories over the shared
// gorm handle, services over the repositories, handlers over the services,
// and the route tree over the handlers.
package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/handlers"
	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
	"github.com/socialite-app/backend/internal/services"
	"github.com/socialite-app/backend/pkg/config"
	"github.com/socialite-app/backend/pkg/filestore"
	"github.com/socialite-app/backend/pkg/pubsub"
	"github.com/socialite-app/backend/pkg/queue"
)

// Dependencies carries the process-level resources the route tree needs.
type Dependencies struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Enqueuer queue.Enqueuer
	Bus      pubsub.Bus
	Files    filestore.FileStore
	Config   *config.Config
	Logger   *zap.Logger
}

// Services bundles the constructed service layer so main can hand the
// shared instances to the workers.
type Services struct {
	Users         *services.UserService
	Content       *services.ContentService
	Notifications *services.NotificationService
	Stories       repositories.StoryRepository
}

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.HTTPErrorHandler = errorHandler(logger)
}

// errorHandler translates the typed service errors into JSON responses and
// keeps Echo's own HTTPErrors intact.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			status := appErr.HTTPStatus()
			if status == http.StatusInternalServerError {
				logger.Error("internal error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
				_ = c.JSON(status, map[string]string{"error": "internal error"})
				return
			}
			_ = c.JSON(status, map[string]string{"error": appErr.Message})
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			msg, ok := httpErr.Message.(string)
			if !ok {
				msg = http.StatusText(httpErr.Code)
			}
			_ = c.JSON(httpErr.Code, map[string]string{"error": msg})
			return
		}

		logger.Error("unhandled error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// SetupRoutes migrates the schema, constructs the full dependency graph
// and registers every route. It returns the service bundle for the
// background workers.
func SetupRoutes(e *echo.Echo, deps Dependencies) (*Services, error) {
	if err := deps.DB.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.FollowRequest{},
		&models.Hashtag{},
		&models.Post{},
		&models.Story{},
		&models.Like{},
		&models.StoryLike{},
		&models.Comment{},
		&models.Notification{},
	); err != nil {
		return nil, err
	}

	// Repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	postRepo := repositories.NewPostRepository(deps.DB)
	storyRepo := repositories.NewStoryRepository(deps.DB)
	hashtagRepo := repositories.NewHashtagRepository(deps.DB)
	likeRepo := repositories.NewLikeRepository(deps.DB)
	storyLikeRepo := repositories.NewStoryLikeRepository(deps.DB)
	commentRepo := repositories.NewCommentRepository(deps.DB)
	followRepo := repositories.NewFollowRepository(deps.DB)
	followRequestRepo := repositories.NewFollowRequestRepository(deps.DB)
	notificationRepo := repositories.NewNotificationRepository(deps.DB)

	// Services
	notificationSvc := services.NewNotificationService(notificationRepo, deps.Enqueuer, deps.Bus, deps.Logger)
	emailSvc, err := services.NewEmailService(
		deps.Redis,
		deps.Enqueuer,
		deps.Config.EmailRateLimitMax,
		deps.Config.EmailRateLimitWindow,
		deps.Logger,
	)
	if err != nil {
		return nil, err
	}
	tokenSvc := services.NewTokenService(deps.Config.JWTSecret)
	userSvc := services.NewUserService(userRepo, followRepo, emailSvc, tokenSvc, deps.Config.FrontendURL, deps.Logger)
	contentSvc := services.NewContentService(postRepo, storyRepo, hashtagRepo, followRepo, deps.Files, deps.Config.StoryTTL, deps.Logger)
	likeSvc := services.NewLikeService(likeRepo, storyLikeRepo, contentSvc, notificationSvc, deps.Logger)
	commentSvc := services.NewCommentService(commentRepo, contentSvc, notificationSvc, deps.Logger)
	followSvc := services.NewFollowService(followRepo, followRequestRepo, userRepo, notificationSvc, deps.Logger)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.Static("/media", deps.Config.MediaDir)

	secret := deps.Config.JWTSecret

	authGroup := e.Group("/api/v1/auth")
	userHandler := handlers.NewUserHandler(userSvc)
	userHandler.RegisterAccountRoutes(authGroup)

	// Reads are reachable anonymously for public content; writes need auth.
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuth(secret, userRepo))

	protected := e.Group("/api/v1")
	protected.Use(middleware.JWTAuth(secret, userRepo))

	userHandler.RegisterProfileRoutes(protected)
	handlers.NewPostHandler(contentSvc).RegisterRoutes(public, protected)
	handlers.NewStoryHandler(contentSvc).RegisterRoutes(public, protected)
	handlers.NewLikeHandler(likeSvc).RegisterRoutes(protected)
	handlers.NewCommentHandler(commentSvc).RegisterRoutes(protected)
	handlers.NewFollowHandler(followSvc).RegisterRoutes(protected)
	handlers.NewNotificationHandler(notificationSvc).RegisterRoutes(protected)
	handlers.NewWebsocketHandler(notificationSvc, deps.Bus, deps.Logger).RegisterRoutes(protected)

	return &Services{
		Users:         userSvc,
		Content:       contentSvc,
		Notifications: notificationSvc,
		Stories:       storyRepo,
	}, nil
}
