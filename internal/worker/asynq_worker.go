package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nearshelf/internal/logger"
	"github.com/nearshelf/internal/provider"
	"github.com/nearshelf/internal/queue"
	"github.com/nearshelf/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSearchLogRecord, c.handleSearchLogRecord)
	mux.HandleFunc(queue.TaskPOSInventoryCounts, c.handlePOSInventoryCounts)
}

func (c *Consumer) handleSearchLogRecord(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_search_log_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SearchLogPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_search_log_unmarshal_failed", "error", err)
		return fmt.Errorf("decode search log payload: %v: %w", err, asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.Query) == "" {
		logger.Debugw("worker_search_log_skip_empty_query", "request_id", payload.RequestID)
		return nil
	}
	if c.SearchLogService == nil {
		logger.Warnw("worker_search_log_skip_service_nil", "request_id", payload.RequestID)
		return nil
	}
	if err := c.SearchLogService.Persist(ctx, payload); err != nil {
		logger.Warnw("worker_search_log_persist_failed",
			"request_id", payload.RequestID,
			"query", payload.Query,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handlePOSInventoryCounts(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_pos_inventory_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.POSInventoryCountsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_pos_inventory_unmarshal_failed", "error", err)
		return fmt.Errorf("decode inventory counts payload: %v: %w", err, asynq.SkipRetry)
	}
	if len(payload.Counts) == 0 {
		logger.Debugw("worker_pos_inventory_skip_empty", "event_id", payload.EventID)
		return nil
	}
	if c.CatalogSyncService == nil {
		logger.Warnw("worker_pos_inventory_skip_service_nil", "event_id", payload.EventID)
		return nil
	}
	result, err := c.CatalogSyncService.ApplyInventoryCounts(ctx, service.InventoryCountsFromPayload(payload))
	if err != nil {
		logger.Warnw("worker_pos_inventory_apply_failed",
			"event_id", payload.EventID,
			"counts", len(payload.Counts),
			"error", err,
		)
		return err
	}
	logger.Infow("worker_pos_inventory_applied",
		"event_id", payload.EventID,
		"applied", result.Inventory,
		"skipped", result.Skipped,
	)
	return nil
}
