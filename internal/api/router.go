package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/task-manager-api/internal/api/handler"
	"github.com/taskhive/task-manager-api/internal/api/middleware"
	"github.com/taskhive/task-manager-api/internal/core/ports"
	"github.com/taskhive/task-manager-api/internal/core/service"
	mongodb "github.com/taskhive/task-manager-api/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/task-manager-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, mail ports.MailDispatcher, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskmanager"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	tokens := service.NewTokenManager(jwtSecret)
	limiter := redisdb.NewLoginLimiter(rdb, 0)

	userService := service.NewUserService(userRepo, taskRepo, tokens, mail, limiter, log)
	taskService := service.NewTaskService(taskRepo, log)

	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)
	auth := middleware.Auth(tokens, userRepo)

	// --- User routes ---
	e.POST("/users", userHandler.Register)
	e.POST("/users/login", userHandler.Login)
	e.POST("/users/logout", userHandler.Logout, auth)
	e.POST("/users/logoutAll", userHandler.LogoutAll, auth)
	e.GET("/users/me", userHandler.Me, auth)
	e.GET("/users", userHandler.List)
	e.GET("/users/:id", userHandler.Get, auth)
	e.PATCH("/users/me", userHandler.UpdateMe, auth)
	e.DELETE("/users/me", userHandler.DeleteMe, auth)
	e.POST("/users/me/avatar", userHandler.UploadAvatar, auth)
	e.DELETE("/users/me/avatar", userHandler.DeleteAvatar, auth)
	e.GET("/users/:id/avatar", userHandler.GetAvatar)

	// --- Task routes ---
	e.POST("/tasks", taskHandler.Create, auth)
	e.GET("/tasks", taskHandler.List, auth)
	e.GET("/tasks/:id", taskHandler.Get, auth)
	e.PATCH("/tasks/:id", taskHandler.Update, auth)
	e.DELETE("/tasks/:id", taskHandler.Delete, auth)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
