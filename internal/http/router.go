package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"hero_store/internal/config"
	"hero_store/internal/http/controller"
	"hero_store/internal/http/middleware"
	"hero_store/internal/metrics"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.RequestID(),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(200)
	})
	if cfg.MetricsPath != "" {
		router.GET(cfg.MetricsPath, gin.WrapH(m.Handler()))
	}

	heroes := router.Group("/heroes")
	heroes.GET("", handler.ListHeroes)
	heroes.POST("", handler.CreateHero)
	heroes.GET("/snapshot", handler.Snapshot)
	heroes.GET("/events", handler.Events)
	heroes.POST("/reset", handler.ResetHeroes)
	heroes.GET("/:id", handler.GetHero)
	heroes.PATCH("/:id", handler.UpdateHero)
	heroes.DELETE("/:id", handler.DeleteHero)

	return router
}
