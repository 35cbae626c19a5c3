package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-board-api/internal/client"
	"task-board-api/internal/config"
	"task-board-api/internal/handler"
	"task-board-api/internal/metrics"
	"task-board-api/internal/middleware"
	"task-board-api/internal/repository"
	"task-board-api/internal/service"
)

// Setup wires repositories, services and handlers into a gin engine
func Setup(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	dispatcher client.NotificationDispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.Metrics(m))

	// Initialize repositories
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize services
	boardService := service.NewBoardService(boardRepo, columnRepo, redisClient, m, logger)
	taskService := service.NewTaskService(taskRepo, columnRepo, dispatcher, m, logger)

	// Initialize handlers
	boardHandler := handler.NewBoardHandler(boardService)
	taskHandler := handler.NewTaskHandler(taskService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes with base path
	api := r.Group(cfg.Server.BasePath)
	{
		// Health under base path, when it differs from the root paths
		if cfg.Server.BasePath != "" && cfg.Server.BasePath != "/" {
			api.GET("/health", healthHandler.Health)
			api.GET("/ready", healthHandler.Ready)
		}

		// Authenticated routes
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(cfg.JWT.Secret))
		{
			// Board and column routes
			authenticated.GET("/boards/channel/:channelId", boardHandler.GetOrCreateBoard)
			authenticated.POST("/boards/channel/:channelId/columns", boardHandler.CreateColumn)
			authenticated.GET("/boards/channel/:channelId/columns", boardHandler.GetColumns)
			authenticated.DELETE("/columns/:columnId", boardHandler.DeleteColumn)

			// Task routes (static routes before dynamic ones)
			authenticated.GET("/calendar", taskHandler.GetCalendarTasks)
			authenticated.GET("/assigned/:userId", taskHandler.GetAssignedTasks)
			authenticated.POST("/columns/:columnId", taskHandler.CreateTask)
			authenticated.GET("/columns/:columnId/tasks", taskHandler.GetColumnTasks)
			authenticated.GET("/:taskId", taskHandler.GetTask)
			authenticated.PUT("/:taskId", taskHandler.UpdateTask)
			authenticated.POST("/:taskId/move", taskHandler.MoveTask)
			authenticated.DELETE("/:taskId", taskHandler.DeleteTask)
		}
	}

	return r
}
