package cache

import (
	"context"
	"testing"

	"github.com/nearshelf/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("disabled cache should not expose a client")
	}
	ctx := context.Background()
	var dest map[string]string
	hit, err := GetJSON(ctx, "k", &dest)
	if err != nil || hit {
		t.Fatalf("disabled get should miss without error, hit=%v err=%v", hit, err)
	}
	if err := SetJSON(ctx, "k", map[string]string{"a": "b"}, ProductDetailTTL); err != nil {
		t.Fatalf("disabled set should be a no-op: %v", err)
	}
	if err := InvalidateProductDetails(ctx, []uint{1, 1, 2}); err != nil {
		t.Fatalf("disabled invalidate should be a no-op: %v", err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("disabled ping should succeed: %v", err)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	redisPrefix = "ns"
	if got := buildKey(ProductDetailKey(42)); got != "ns:catalog:product:42" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := buildKey("  "); got != "ns" {
		t.Fatalf("blank key should return prefix, got %s", got)
	}
}
