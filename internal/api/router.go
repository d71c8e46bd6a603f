package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobly/internal/api/middleware"
	"jobly/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎，挂载通用中间件、健康检查与指标端点。
func NewRouter(logger *slog.Logger) *gin.Engine {
	// 请求体中的未知字段一律拒绝，PATCH 不能借此改写主键或外键。
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	router.Use(
		middleware.CorrelationID(),
		middleware.RequestLogger(logger),
		metrics.GinMiddleware(),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			middleware.LoggerFromContext(c).Error("panic recovered", slog.Any("panic", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
		}),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "Not Found")
	})

	return router
}
