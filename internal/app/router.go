package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"schema-warden.io/warden/internal/api/handlers"
	"schema-warden.io/warden/internal/api/middleware"
	"schema-warden.io/warden/internal/pkg/logger"
)

func newRouter(server *handlers.Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.ErrorHandler())
	router.Use(cors.Default())

	router.POST("/webhooks/check", server.PostCheckWebhook)

	router.GET("/health/live", server.GetLiveness)
	router.GET("/health/ready", server.GetReadiness)

	// zap AtomicLevel handler: GET returns the level, PUT changes it.
	levelHandler := gin.WrapH(logger.HTTPHandler())
	router.GET("/log/level", levelHandler)
	router.PUT("/log/level", levelHandler)

	return router
}
