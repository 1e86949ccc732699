package router

import (
	"fmt"
	"strings"

	"github.com/nearshelf/internal/cache"
	"github.com/nearshelf/internal/config"
	publichandlers "github.com/nearshelf/internal/http/handlers/public"
	"github.com/nearshelf/internal/logger"
	"github.com/nearshelf/internal/metrics"
	"github.com/nearshelf/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ns"
	}
	searchRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:search", redisPrefix),
		WindowSeconds: cfg.RateLimit.WindowSeconds,
		MaxRequests:   cfg.RateLimit.MaxRequests,
	}
	searchLimiter := RateLimitMiddleware(cache.Client(), searchRule, KeyByIP)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(metrics.Middleware())

	apiV1 := r.Group("/api/v1")
	{
		products := apiV1.Group("/products")
		{
			products.GET("/search", searchLimiter, publicHandler.SearchProducts)
			products.GET("/suggestions", searchLimiter, publicHandler.GetSuggestions)
			products.GET("/:id", publicHandler.GetProduct)
		}

		webhooks := apiV1.Group("/webhooks")
		{
			webhooks.POST("/pos/inventory", publicHandler.HandlePOSInventoryWebhook)
		}
	}

	// 健康检查与指标
	r.GET("/healthz", publicHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
