// Package server wires repositories, services and handlers into the HTTP router.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/yukikurage/taskflow-api/internal/config"
	"github.com/yukikurage/taskflow-api/internal/handlers"
	"github.com/yukikurage/taskflow-api/internal/middleware"
	"github.com/yukikurage/taskflow-api/internal/repository"
	"github.com/yukikurage/taskflow-api/internal/services"
	"gorm.io/gorm"
)

// Deps holds what the router needs from main. Redis may be nil.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Config

	userRepo := repository.NewUserRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	policy := services.AccessPolicy{
		RestrictUserTaskLookup: cfg.RestrictUserTaskLookup,
		AdminOnlyReports:       cfg.AdminOnlyReports,
	}
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokens)
	taskService := services.NewTaskService(taskRepo, userRepo, policy)
	reportService := services.NewReportService(taskRepo, policy)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Metrics())

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(tokens, authService, cfg.ReverifyTokenClaims)

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited when Redis is configured)
		auth := api.Group("/auth")
		auth.Use(middleware.RedisRateLimit(deps.Redis, cfg.AuthRateLimit, rateWindow(cfg)))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/user", taskHandler.ListTasksByUserEmail)
			tasks.GET("/:id", middleware.RequireTaskAccess(taskService), taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		reports := api.Group("/reports")
		reports.Use(requireAuth)
		{
			reports.GET("/summary", reportHandler.Summary)
		}
	}

	return r
}

func rateWindow(cfg *config.Config) time.Duration {
	if cfg.AuthRateWindow <= 0 {
		return time.Minute
	}
	return cfg.AuthRateWindow
}
