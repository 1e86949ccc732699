package service

import (
	"context"
	"time"

	"github.com/nearshelf/internal/logger"
	"github.com/nearshelf/internal/metrics"
	"github.com/nearshelf/internal/models"
	"github.com/nearshelf/internal/queue"
	"github.com/nearshelf/internal/repository"

	"github.com/hibiken/asynq"
)

const searchLogWriteTimeout = 5 * time.Second

// searchLogEnqueuer 搜索日志入队能力（*queue.Client 实现）
type searchLogEnqueuer interface {
	Enabled() bool
	EnqueueSearchLog(payload queue.SearchLogPayload, opts ...asynq.Option) error
}

// SearchLogService 搜索日志：队列可用时入队，否则后台 goroutine 直接落库；失败只记日志
type SearchLogService struct {
	repo     repository.SearchLogRepository
	enqueuer searchLogEnqueuer
	detach   func(fn func())
}

// NewSearchLogService 创建搜索日志服务，queueClient 可为空
func NewSearchLogService(repo repository.SearchLogRepository, queueClient *queue.Client) *SearchLogService {
	s := &SearchLogService{
		repo:   repo,
		detach: func(fn func()) { go fn() },
	}
	if queueClient != nil {
		s.enqueuer = queueClient
	}
	return s
}

// Record 实现 SearchRecorder，入队与直写都在后台执行，不阻塞调用方也不返回错误
func (s *SearchLogService) Record(ctx context.Context, entry SearchLogEntry) {
	if s == nil {
		return
	}
	payload := toSearchLogPayload(entry)
	if s.enqueuer != nil && s.enqueuer.Enabled() {
		// Redis 变慢或不可达时只影响后台 goroutine
		s.detach(func() {
			if err := s.enqueuer.EnqueueSearchLog(payload); err != nil {
				metrics.SearchLogFailuresTotal.WithLabelValues("enqueue").Inc()
				logger.Warnw("search_log_enqueue_failed", "request_id", entry.RequestID, "query", entry.Query, "error", err)
			}
		})
		return
	}
	// 请求结束后上下文会被取消，落库使用独立上下文
	detached := context.WithoutCancel(ctx)
	s.detach(func() {
		writeCtx, cancel := context.WithTimeout(detached, searchLogWriteTimeout)
		defer cancel()
		if err := s.Persist(writeCtx, payload); err != nil {
			metrics.SearchLogFailuresTotal.WithLabelValues("persist").Inc()
			logger.Warnw("search_log_record_failed", "request_id", entry.RequestID, "query", entry.Query, "error", err)
		}
	})
}

// Persist 写入一条搜索日志（队列消费与直写共用）
func (s *SearchLogService) Persist(ctx context.Context, payload queue.SearchLogPayload) error {
	if s == nil || s.repo == nil {
		return nil
	}
	createdAt := payload.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.repo.Create(ctx, &models.SearchLog{
		Query:     payload.Query,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Radius:    payload.Radius,
		Results:   payload.Results,
		RequestID: payload.RequestID,
		CreatedAt: createdAt,
	})
}

func toSearchLogPayload(entry SearchLogEntry) queue.SearchLogPayload {
	latitude := entry.Location.Latitude
	longitude := entry.Location.Longitude
	radius := entry.RadiusKM
	return queue.SearchLogPayload{
		Query:     entry.Query,
		Latitude:  &latitude,
		Longitude: &longitude,
		Radius:    &radius,
		Results:   entry.Results,
		RequestID: entry.RequestID,
		CreatedAt: entry.CreatedAt,
	}
}
