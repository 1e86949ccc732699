package provider

import (
	"github.com/nearshelf/internal/cache"
	"github.com/nearshelf/internal/config"
	"github.com/nearshelf/internal/geo"
	"github.com/nearshelf/internal/logger"
	"github.com/nearshelf/internal/queue"
	"github.com/nearshelf/internal/repository"
	"github.com/nearshelf/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CatalogRepo     repository.CatalogRepository
	CatalogSyncRepo repository.CatalogSyncRepository
	SearchLogRepo   repository.SearchLogRepository

	// Services
	SearchLogService   *service.SearchLogService
	SearchService      *service.SearchService
	SuggestionService  *service.SuggestionService
	CatalogService     *service.CatalogService
	CatalogSyncService *service.CatalogSyncService
	POSWebhookService  *service.POSWebhookService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.CatalogRepo = repository.NewCatalogRepository(db)
	c.CatalogSyncRepo = repository.NewCatalogSyncRepository(db)
	c.SearchLogRepo = repository.NewSearchLogRepository(db)
}

func (c *Container) initServices() {
	searchCfg := c.Config.Search
	c.SearchLogService = service.NewSearchLogService(c.SearchLogRepo, c.QueueClient)
	c.SearchService = service.NewSearchService(c.CatalogRepo, c.SearchLogService, service.SearchDefaults{
		Location: geo.Coordinate{Latitude: searchCfg.DefaultLatitude, Longitude: searchCfg.DefaultLongitude},
		RadiusKM: searchCfg.DefaultRadiusKM,
		Limit:    searchCfg.DefaultLimit,
	})
	c.SuggestionService = service.NewSuggestionService(searchCfg.SuggestionDefaultLimit)
	c.CatalogService = service.NewCatalogService(c.CatalogRepo)
	c.CatalogSyncService = service.NewCatalogSyncService(c.CatalogSyncRepo)
	c.POSWebhookService = service.NewPOSWebhookService(service.POSWebhookOptions{
		SignatureKey:    c.Config.POS.WebhookSignatureKey,
		NotificationURL: c.Config.POS.WebhookNotificationURL,
	}, c.CatalogSyncService, c.QueueClient)
}

// Close 释放队列客户端与缓存连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
