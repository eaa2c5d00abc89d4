// Package router assembles the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/handler"
	"github.com/noah-isme/edu-content-forge/internal/middleware"
	"github.com/noah-isme/edu-content-forge/internal/service"
	"github.com/noah-isme/edu-content-forge/pkg/config"
	"github.com/noah-isme/edu-content-forge/pkg/logger"
	corsmiddleware "github.com/noah-isme/edu-content-forge/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edu-content-forge/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Generation *handler.GenerationHandler
	Jobs       *handler.JobHandler
	Standards  *handler.StandardHandler
	Products   *handler.ProductHandler
	Metrics    *handler.MetricsHandler
}

// New builds the engine with middleware and every route.
func New(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics"))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/generate-product", h.Generation.GenerateProduct)
	api.POST("/generate-bundle", h.Generation.GenerateBundle)
	api.GET("/stats", h.Metrics.Stats)

	jobs := api.Group("/generation-jobs")
	jobs.GET("", h.Jobs.List)
	jobs.GET("/:id", h.Jobs.Get)
	jobs.GET("/:id/products", h.Jobs.Products)

	standards := api.Group("/standards")
	standards.GET("", h.Standards.List)
	standards.POST("", h.Standards.Create)
	standards.GET("/:id", h.Standards.Get)

	products := api.Group("/products")
	products.GET("", h.Products.List)
	products.GET("/:id", h.Jobs.Product)
	products.GET("/:id/artifacts/:kind", h.Jobs.Artifact)
	products.POST("/:id/retry", h.Generation.RetryProduct)
	products.PATCH("/:id/status", h.Products.UpdateStatus)

	return r
}
