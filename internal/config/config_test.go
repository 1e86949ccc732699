package config

import (
	"os"
	"testing"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Fatalf("default port want 8080 got %s", cfg.Server.Port)
	}
	if cfg.Search.DefaultLatitude != DefaultMarketLatitude || cfg.Search.DefaultLongitude != DefaultMarketLongitude {
		t.Fatalf("unexpected default market location: %v,%v", cfg.Search.DefaultLatitude, cfg.Search.DefaultLongitude)
	}
	if cfg.Search.DefaultRadiusKM != 10 {
		t.Fatalf("default radius want 10 got %v", cfg.Search.DefaultRadiusKM)
	}
	if cfg.Search.DefaultLimit != 20 {
		t.Fatalf("default limit want 20 got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Search.SuggestionDefaultLimit != 5 {
		t.Fatalf("default suggestion limit want 5 got %d", cfg.Search.SuggestionDefaultLimit)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("default driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Queue.Queues["analytics"] != 2 {
		t.Fatalf("analytics queue weight want 2 got %d", cfg.Queue.Queues["analytics"])
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	chdirTemp(t)

	content := []byte("server:\n  port: \"9090\"\nsearch:\n  default_radius_km: 15\n")
	if err := os.WriteFile("config.yml", content, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv("SEARCH_DEFAULT_LIMIT", "30")

	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Fatalf("file port want 9090 got %s", cfg.Server.Port)
	}
	if cfg.Search.DefaultRadiusKM != 15 {
		t.Fatalf("file radius want 15 got %v", cfg.Search.DefaultRadiusKM)
	}
	if cfg.Search.DefaultLimit != 30 {
		t.Fatalf("env limit want 30 got %d", cfg.Search.DefaultLimit)
	}
}
