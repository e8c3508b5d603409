package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"taskapi/internal/shared"
)

func MetricsMiddleware(metrics *shared.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections()
		defer metrics.DecrementActiveConnections()

		c.Next()

		metrics.RecordRequest(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

func LoggingMiddleware(logger *otelzap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		logger.Ctx(c.Request.Context()).Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// Setup wires the standard middleware chain: tracing first, then logging,
// metrics, and the boundary rate limiter when enabled.
func Setup(router *gin.Engine, serviceName string, metrics *shared.AppMetrics, logger *otelzap.Logger, settings *shared.Settings) {
	router.Use(otelgin.Middleware(serviceName))

	if logger != nil {
		router.Use(LoggingMiddleware(logger))
	}

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	if settings != nil && settings.EnforceHTTPS {
		router.Use(HTTPSEnforcer())
	}

	if settings != nil && settings.RateLimitEnabled {
		limiter := NewRateLimiter(settings.RateLimitRequests, settings.RateLimitWindow, metrics)
		router.Use(limiter.Middleware())
	}
}
