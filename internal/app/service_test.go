package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nearshelf/internal/config"
	"github.com/nearshelf/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeService struct {
	name     string
	startErr error
	stopped  atomic.Bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *fakeService) Stop(context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errors.New("listen failed")}
	healthy := &fakeService{name: "healthy"}
	runner := NewRunner(failing, healthy)
	cleaned := false
	runner.OnStop(func() { cleaned = true })

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "listen failed" {
		t.Fatalf("want start error, got %v", err)
	}
	if !failing.stopped.Load() || !healthy.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
	if !cleaned {
		t.Fatalf("stop hooks should run")
	}
}

func TestRunnerCanceledContextIsCleanExit(t *testing.T) {
	svc := &fakeService{name: "http"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("canceled context should exit cleanly, got %v", err)
	}
	if !svc.stopped.Load() {
		t.Fatalf("service should be stopped")
	}
}

func TestBuildRunnerModes(t *testing.T) {
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: "0", Mode: "debug"}}
	runner, err := BuildRunner(cfg, db, ModeAll)
	if err != nil {
		t.Fatalf("all mode without queue should build api only, got %v", err)
	}
	if len(runner.services) != 1 || runner.services[0].Name() != "http" {
		t.Fatalf("want only http service, got %d", len(runner.services))
	}

	if _, err := BuildRunner(cfg, db, ModeWorker); err == nil {
		t.Fatalf("worker mode requires an enabled queue")
	}
	if _, err := BuildRunner(cfg, nil, ModeAPI); err == nil {
		t.Fatalf("nil database should fail")
	}
	if _, err := BuildRunner(nil, db, ModeAPI); err == nil {
		t.Fatalf("nil config should fail")
	}
}
