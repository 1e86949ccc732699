package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nearshelf/internal/geo"
	"github.com/nearshelf/internal/models"
	"github.com/nearshelf/internal/queue"

	"github.com/hibiken/asynq"
)

type searchLogRepoStub struct {
	mu   sync.Mutex
	logs []models.SearchLog
	err  error
}

func (s *searchLogRepoStub) Create(_ context.Context, log *models.SearchLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, *log)
	return nil
}

func (s *searchLogRepoStub) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.logs)), nil
}

type searchLogEnqueuerStub struct {
	mu       sync.Mutex
	enabled  bool
	err      error
	block    chan struct{}
	payloads []queue.SearchLogPayload
}

func (s *searchLogEnqueuerStub) Enabled() bool { return s.enabled }

func (s *searchLogEnqueuerStub) EnqueueSearchLog(payload queue.SearchLogPayload, _ ...asynq.Option) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return s.err
}

func sampleEntry() SearchLogEntry {
	return SearchLogEntry{
		Query:     "hoodie",
		Location:  geo.Coordinate{Latitude: -28.6, Longitude: 153.6},
		RadiusKM:  10,
		Results:   3,
		RequestID: "req-1",
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSearchLogRecordWritesInlineWithoutQueue(t *testing.T) {
	repo := &searchLogRepoStub{}
	svc := NewSearchLogService(repo, nil)
	svc.detach = func(fn func()) { fn() }

	svc.Record(context.Background(), sampleEntry())

	if len(repo.logs) != 1 {
		t.Fatalf("want 1 log got %d", len(repo.logs))
	}
	log := repo.logs[0]
	if log.Query != "hoodie" || log.Results != 3 || log.RequestID != "req-1" {
		t.Fatalf("unexpected log: %+v", log)
	}
	if log.Latitude == nil || *log.Latitude != -28.6 || log.Radius == nil || *log.Radius != 10 {
		t.Fatalf("coordinate and radius should be persisted: %+v", log)
	}
}

func TestSearchLogRecordSurvivesCanceledContext(t *testing.T) {
	repo := &searchLogRepoStub{}
	svc := NewSearchLogService(repo, nil)
	done := make(chan struct{})
	svc.detach = func(fn func()) {
		go func() {
			defer close(done)
			fn()
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Record(ctx, sampleEntry())
	<-done

	if len(repo.logs) != 1 {
		t.Fatalf("log should be written after request context ends, got %d", len(repo.logs))
	}
}

func TestSearchLogRecordSwallowsErrors(t *testing.T) {
	svc := NewSearchLogService(&searchLogRepoStub{err: errors.New("disk full")}, nil)
	svc.detach = func(fn func()) { fn() }
	svc.Record(context.Background(), sampleEntry())

	enqueuer := &searchLogEnqueuerStub{enabled: true, err: errors.New("redis down")}
	queued := NewSearchLogService(&searchLogRepoStub{}, nil)
	queued.enqueuer = enqueuer
	queued.detach = func(fn func()) { fn() }
	queued.Record(context.Background(), sampleEntry())
	if len(enqueuer.payloads) != 1 {
		t.Fatalf("enqueue should be attempted once, got %d", len(enqueuer.payloads))
	}
}

func TestSearchLogRecordPrefersQueue(t *testing.T) {
	repo := &searchLogRepoStub{}
	enqueuer := &searchLogEnqueuerStub{enabled: true}
	svc := NewSearchLogService(repo, nil)
	svc.enqueuer = enqueuer
	svc.detach = func(fn func()) { fn() }

	svc.Record(context.Background(), sampleEntry())

	if len(enqueuer.payloads) != 1 || enqueuer.payloads[0].Results != 3 {
		t.Fatalf("unexpected payloads: %+v", enqueuer.payloads)
	}
	if len(repo.logs) != 0 {
		t.Fatalf("queued entry should not be persisted inline")
	}
}

func TestSearchLogPersistDefaultsTimestamp(t *testing.T) {
	repo := &searchLogRepoStub{}
	svc := NewSearchLogService(repo, nil)
	if err := svc.Persist(context.Background(), queue.SearchLogPayload{Query: "tee"}); err != nil {
		t.Fatalf("persist failed: %v", err)
	}
	if repo.logs[0].CreatedAt.IsZero() {
		t.Fatalf("created_at should default to now")
	}
}

func TestSearchLogRecordDoesNotWaitForSlowQueue(t *testing.T) {
	enqueuer := &searchLogEnqueuerStub{enabled: true, block: make(chan struct{})}
	svc := NewSearchLogService(&searchLogRepoStub{}, nil)
	svc.enqueuer = enqueuer
	done := make(chan struct{})
	svc.detach = func(fn func()) {
		go func() {
			defer close(done)
			fn()
		}()
	}

	returned := make(chan struct{})
	go func() {
		svc.Record(context.Background(), sampleEntry())
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatalf("record should return while enqueue is blocked")
	}

	close(enqueuer.block)
	<-done
	enqueuer.mu.Lock()
	defer enqueuer.mu.Unlock()
	if len(enqueuer.payloads) != 1 {
		t.Fatalf("blocked enqueue should finish in background, got %d", len(enqueuer.payloads))
	}
}

func TestSearchDoesNotWaitForSlowSearchLogQueue(t *testing.T) {
	enqueuer := &searchLogEnqueuerStub{enabled: true, block: make(chan struct{})}
	defer close(enqueuer.block)
	logs := NewSearchLogService(&searchLogRepoStub{}, nil)
	logs.enqueuer = enqueuer

	svc := newSearchServiceForTest(&catalogRepoStub{}, logs)
	returned := make(chan error, 1)
	go func() {
		_, err := svc.Search(context.Background(), SearchInput{Query: "hoodie"})
		returned <- err
	}()
	select {
	case err := <-returned:
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("search should not be gated by the analytics queue")
	}
}
