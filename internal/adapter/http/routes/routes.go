package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"taskapi/internal/adapter/http/handler"
	"taskapi/internal/adapter/http/middleware"
	"taskapi/internal/shared"
)

type HandlersConfig struct {
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouter(handlers HandlersConfig, metrics *shared.AppMetrics, logger *otelzap.Logger, settings *shared.Settings) *gin.Engine {
	if settings.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.Setup(router, settings.AppName, metrics, logger, settings)

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	registerRoutes(router, handlers)

	return router
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Check)
	}

	if handlers.TaskHandler != nil {
		tasks := router.Group("/tasks")
		{
			tasks.POST("", handlers.TaskHandler.CreateTask)
			tasks.GET("", handlers.TaskHandler.ListTasks)
			tasks.GET("/:id", handlers.TaskHandler.GetTask)
			tasks.PATCH("/:id", handlers.TaskHandler.UpdateTask)
			tasks.DELETE("/:id", handlers.TaskHandler.DeleteTask)
		}
	}
}
