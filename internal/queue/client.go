package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nearshelf/internal/config"
	"github.com/nearshelf/internal/constants"
	"github.com/nearshelf/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// AnalyticsQueue 分析类低优先级队列
	AnalyticsQueue = constants.QueueAnalytics

	searchLogMaxRetry      = 3
	searchLogRetention     = time.Hour
	inventoryCountMaxRetry = 8
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueSearchLog 推送搜索日志任务，失败重试次数有限
func (c *Client) EnqueueSearchLog(payload SearchLogPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewSearchLogTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{
		asynq.Queue(AnalyticsQueue),
		asynq.MaxRetry(searchLogMaxRetry),
		asynq.Retention(searchLogRetention),
	}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

// EnqueuePOSInventoryCounts 推送 POS 库存同步任务
func (c *Client) EnqueuePOSInventoryCounts(payload POSInventoryCountsPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewPOSInventoryCountsTask(payload)
	if err != nil {
		return err
	}
	options := []asynq.Option{asynq.Queue(c.defaultQueue), asynq.MaxRetry(inventoryCountMaxRetry)}
	if id := strings.TrimSpace(payload.EventID); id != "" {
		// 同一 webhook 事件重复投递时只入队一次
		options = append(options, asynq.TaskID("pos-inventory-"+id))
	}
	options = append(options, opts...)
	_, err = c.client.Enqueue(task, options...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := defaultServerQueues()
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = mergeServerQueues(cfg.Queues)
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func defaultServerQueues() map[string]int {
	return map[string]int{DefaultQueue: 10, AnalyticsQueue: 2}
}

// mergeServerQueues 配置缺少任务依赖的队列时补上默认权重，否则对应任务无人消费
func mergeServerQueues(configured map[string]int) map[string]int {
	queues := make(map[string]int, len(configured)+2)
	for name, weight := range configured {
		queues[name] = weight
	}
	for name, weight := range defaultServerQueues() {
		if queues[name] > 0 {
			continue
		}
		queues[name] = weight
		logger.Warnw("queue_config_missing_queue", "queue", name, "weight", weight)
	}
	return queues
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
