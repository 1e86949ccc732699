package queue

import (
	"encoding/json"
	"time"

	"github.com/nearshelf/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSearchLogRecord 搜索日志落库任务
	TaskSearchLogRecord = constants.TaskSearchLogRecord
	// TaskPOSInventoryCounts POS 库存增量同步任务
	TaskPOSInventoryCounts = constants.TaskPOSInventoryCounts
)

// SearchLogPayload 搜索日志任务载荷
type SearchLogPayload struct {
	Query     string    `json:"query"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Radius    *float64  `json:"radius,omitempty"`
	Results   int       `json:"results"`
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InventoryCountPayload 单条库存盘点
type InventoryCountPayload struct {
	VariationExternalID string    `json:"variation_external_id"`
	Quantity            int       `json:"quantity"`
	State               string    `json:"state,omitempty"`
	CalculatedAt        time.Time `json:"calculated_at"`
}

// POSInventoryCountsPayload POS 库存 webhook 任务载荷
type POSInventoryCountsPayload struct {
	EventID string                  `json:"event_id,omitempty"`
	Counts  []InventoryCountPayload `json:"counts"`
}

// NewSearchLogTask 创建搜索日志任务
func NewSearchLogTask(payload SearchLogPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSearchLogRecord, body), nil
}

// NewPOSInventoryCountsTask 创建库存同步任务
func NewPOSInventoryCountsTask(payload POSInventoryCountsPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPOSInventoryCounts, body), nil
}
