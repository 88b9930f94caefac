// Package server contains the HTTP handlers of the board.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "mmorpgboard/docs" // swagger docs
	"mmorpgboard/internal/cache"
	"mmorpgboard/internal/config"
	"mmorpgboard/internal/database"
	"mmorpgboard/internal/middleware"
	"mmorpgboard/internal/models"
	"mmorpgboard/internal/notifications"
	"mmorpgboard/internal/repository"
	"mmorpgboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config       *config.Config
	db           *gorm.DB
	redis        *redis.Client
	app          *fiber.App
	sessions     *middleware.SessionManager
	dispatcher   *notifications.Dispatcher
	authService  *service.AuthService
	postService  *service.PostService
	replyService *service.ReplyService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case the board runs without a cache and
// logouts are not remembered server side. mailer may be nil to pick one
// from the config.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mailer notifications.Mailer) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server: config and database are required")
	}
	if mailer == nil {
		mailer = notifications.NewMailer(cfg)
	}

	store := cache.NewStore(redisClient)
	var revoker middleware.Revoker
	if store.Enabled() {
		revoker = cache.NewSessionRevoker(store)
	}

	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewCodeRepository(db)
	postRepo := repository.NewPostRepository(db, store)
	replyRepo := repository.NewReplyRepository(db)

	dispatcher := notifications.NewDispatcher(mailer, cfg.DefaultFromEmail)
	codes := service.NewCodeService(codeRepo, cfg)

	return &Server{
		config:       cfg,
		db:           db,
		redis:        redisClient,
		sessions:     middleware.NewSessionManager(cfg, revoker),
		dispatcher:   dispatcher,
		authService:  service.NewAuthService(userRepo, codes, dispatcher),
		postService:  service.NewPostService(postRepo),
		replyService: service.NewReplyService(replyRepo, postRepo, dispatcher, service.ReplyPolicyFromConfig(cfg)),
	}, nil
}

// App returns the fiber application with middleware and routes installed,
// building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "MMORPG Board",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	middleware.RegisterMetrics(app, "/metrics")

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := s.sessions.AuthRequired

	app.Get("/", s.ListPosts)
	app.Get("/categories", s.ListCategories)

	// Specific /post routes before the generic /post/:id
	app.Post("/post/add", auth, s.CreatePost)
	app.Post("/post/:id/edit", auth, s.UpdatePost)
	app.Post("/post/:id/delete", auth, s.DeletePost)
	app.Post("/post/:id/reply", auth, s.CreateReply)
	app.Get("/post/:id", s.GetPost)

	app.Get("/my-replies", auth, s.MyReplies)
	app.Post("/reply/:id/accept", auth, s.AcceptReply)
	app.Post("/reply/:id/delete", auth, s.DeleteReply)

	app.Post("/register", s.Register)
	app.Post("/login", s.Login)
	app.Get("/login-with-code/:userId", s.PendingVerification)
	app.Post("/login-with-code", s.VerifyCode)
	app.Post("/login-with-code/:userId", s.VerifyCode)
	app.Post("/logout", s.Logout)
}

// LivenessCheck handles liveness probe requests
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,time=string}
// @Router /health/live [get]
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: an
// absent client is reported but does not fail readiness.
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,checks=object}
// @Failure 503 {object} object{status=string,checks=object}
// @Router /health/ready [get]
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
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

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.App().Listen(":" + s.config.Port)
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
