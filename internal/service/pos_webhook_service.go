package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nearshelf/internal/constants"
	"github.com/nearshelf/internal/logger"
	"github.com/nearshelf/internal/queue"

	"github.com/hibiken/asynq"
)

// inventoryCountsEnqueuer 库存同步任务入队能力（*queue.Client 实现）
type inventoryCountsEnqueuer interface {
	Enabled() bool
	EnqueuePOSInventoryCounts(payload queue.POSInventoryCountsPayload, opts ...asynq.Option) error
}

// POSWebhookOptions webhook 校验配置
type POSWebhookOptions struct {
	SignatureKey    string
	NotificationURL string
}

// POSWebhookResult webhook 处理结果
type POSWebhookResult struct {
	EventID string `json:"eventId,omitempty"`
	Type    string `json:"type"`
	Counts  int    `json:"counts"`
	Queued  bool   `json:"queued"`
	Ignored bool   `json:"ignored"`
	Applied int    `json:"applied"`
	Skipped int    `json:"skipped"`
}

// POSWebhookEvent POS 平台推送的事件
type POSWebhookEvent struct {
	EventID string `json:"event_id"`
	Type    string `json:"type"`
	Data    struct {
		Object struct {
			InventoryCounts []posInventoryCount `json:"inventory_counts"`
		} `json:"object"`
	} `json:"data"`
}

// posInventoryCount 数量以字符串下发
type posInventoryCount struct {
	CatalogObjectID string `json:"catalog_object_id"`
	State           string `json:"state"`
	Quantity        string `json:"quantity"`
	CalculatedAt    string `json:"calculated_at"`
}

// POSWebhookService 处理 POS 库存 webhook
type POSWebhookService struct {
	options  POSWebhookOptions
	sync     *CatalogSyncService
	enqueuer inventoryCountsEnqueuer
}

// NewPOSWebhookService 创建 webhook 服务，queueClient 可为空（此时同步落库）
func NewPOSWebhookService(options POSWebhookOptions, sync *CatalogSyncService, queueClient *queue.Client) *POSWebhookService {
	s := &POSWebhookService{options: options, sync: sync}
	if queueClient != nil {
		s.enqueuer = queueClient
	}
	return s
}

// VerifySignature 校验 base64(HMAC-SHA256(key, notificationURL + body))；未配置密钥时一律拒绝
func (s *POSWebhookService) VerifySignature(signature string, body []byte) bool {
	key := strings.TrimSpace(s.options.SignatureKey)
	signature = strings.TrimSpace(signature)
	if key == "" || signature == "" {
		return false
	}
	expected := SignPOSPayload(key, s.options.NotificationURL, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignPOSPayload 计算 webhook 签名
func SignPOSPayload(key, notificationURL string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(notificationURL))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Handle 校验签名、解析盘点后入队；队列不可用时直接落库
func (s *POSWebhookService) Handle(ctx context.Context, signature string, body []byte) (*POSWebhookResult, error) {
	if !s.VerifySignature(signature, body) {
		return nil, ErrInvalidSignature
	}
	event, counts, err := ParseInventoryWebhook(body)
	if err != nil {
		return nil, err
	}
	result := &POSWebhookResult{EventID: event.EventID, Type: event.Type, Counts: len(counts)}
	if event.Type != constants.POSEventInventoryCountUpdated {
		result.Ignored = true
		logger.Debugw("inventory_webhook_ignored", "event_id", event.EventID, "type", event.Type)
		return result, nil
	}
	if len(counts) == 0 {
		return result, nil
	}

	if s.enqueuer != nil && s.enqueuer.Enabled() {
		if err := s.enqueuer.EnqueuePOSInventoryCounts(toInventoryCountsPayload(event.EventID, counts)); err != nil {
			return nil, fmt.Errorf("enqueue inventory counts: %w", err)
		}
		result.Queued = true
		logger.Infow("inventory_webhook_enqueued", "event_id", event.EventID, "counts", len(counts))
		return result, nil
	}

	applied, err := s.sync.ApplyInventoryCounts(ctx, counts)
	if err != nil {
		return nil, err
	}
	result.Applied = applied.Inventory
	result.Skipped = applied.Skipped
	logger.Infow("inventory_webhook_applied", "event_id", event.EventID, "applied", applied.Inventory, "skipped", applied.Skipped)
	return result, nil
}

// ParseInventoryWebhook 解析 webhook 事件与库存盘点
func ParseInventoryWebhook(body []byte) (POSWebhookEvent, []InventoryCount, error) {
	var event POSWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	event.Type = strings.TrimSpace(event.Type)
	if event.Type == "" {
		return event, nil, fmt.Errorf("%w: missing event type", ErrInvalidPayload)
	}

	raw := event.Data.Object.InventoryCounts
	counts := make([]InventoryCount, 0, len(raw))
	for _, item := range raw {
		quantity, err := parsePOSQuantity(item.Quantity)
		if err != nil {
			return event, nil, fmt.Errorf("%w: quantity %q for %s", ErrInvalidPayload, item.Quantity, item.CatalogObjectID)
		}
		count := InventoryCount{
			VariationExternalID: strings.TrimSpace(item.CatalogObjectID),
			Quantity:            quantity,
			State:               strings.TrimSpace(item.State),
		}
		if at := strings.TrimSpace(item.CalculatedAt); at != "" {
			if parsed, err := time.Parse(time.RFC3339, at); err == nil {
				count.CalculatedAt = parsed
			}
		}
		counts = append(counts, count)
	}
	return event, counts, nil
}

// parsePOSQuantity 数量可能带小数（如 "12.000"），向下取整且不小于 0；非有限值或超出 int32 范围报错
func parsePOSQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("quantity %q is not finite", raw)
	}
	if value > math.MaxInt32 {
		return 0, fmt.Errorf("quantity %q out of range", raw)
	}
	if value < 0 {
		return 0, nil
	}
	return int(value), nil
}

func toInventoryCountsPayload(eventID string, counts []InventoryCount) queue.POSInventoryCountsPayload {
	payload := queue.POSInventoryCountsPayload{
		EventID: eventID,
		Counts:  make([]queue.InventoryCountPayload, 0, len(counts)),
	}
	for _, count := range counts {
		payload.Counts = append(payload.Counts, queue.InventoryCountPayload{
			VariationExternalID: count.VariationExternalID,
			Quantity:            count.Quantity,
			State:               count.State,
			CalculatedAt:        count.CalculatedAt,
		})
	}
	return payload
}

// InventoryCountsFromPayload 队列载荷转换为盘点列表
func InventoryCountsFromPayload(payload queue.POSInventoryCountsPayload) []InventoryCount {
	counts := make([]InventoryCount, 0, len(payload.Counts))
	for _, item := range payload.Counts {
		counts = append(counts, InventoryCount{
			VariationExternalID: item.VariationExternalID,
			Quantity:            item.Quantity,
			State:               item.State,
			CalculatedAt:        item.CalculatedAt,
		})
	}
	return counts
}
