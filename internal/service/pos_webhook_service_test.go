package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/nearshelf/internal/queue"
	"github.com/nearshelf/internal/repository"

	"github.com/hibiken/asynq"
)

const testNotificationURL = "https://nearshelf.example/api/v1/webhooks/pos/inventory"

type inventoryEnqueuerStub struct {
	enabled  bool
	payloads []queue.POSInventoryCountsPayload
}

func (s *inventoryEnqueuerStub) Enabled() bool { return s.enabled }

func (s *inventoryEnqueuerStub) EnqueuePOSInventoryCounts(payload queue.POSInventoryCountsPayload, _ ...asynq.Option) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

const inventoryEventBody = `{
  "event_id": "evt-1",
  "type": "inventory.count.updated",
  "data": {"object": {"inventory_counts": [
    {"catalog_object_id": "VAR-1", "state": "IN_STOCK", "quantity": "12", "calculated_at": "2026-05-02T09:00:00Z"},
    {"catalog_object_id": "VAR-2", "state": "IN_STOCK", "quantity": "1.000"}
  ]}}
}`

func TestVerifySignature(t *testing.T) {
	svc := NewPOSWebhookService(POSWebhookOptions{SignatureKey: "secret", NotificationURL: testNotificationURL}, nil, nil)
	body := []byte(inventoryEventBody)
	signature := SignPOSPayload("secret", testNotificationURL, body)

	if !svc.VerifySignature(signature, body) {
		t.Fatalf("valid signature rejected")
	}
	if svc.VerifySignature(signature, append(body, ' ')) {
		t.Fatalf("tampered body accepted")
	}
	if svc.VerifySignature("", body) {
		t.Fatalf("empty signature accepted")
	}
	unconfigured := NewPOSWebhookService(POSWebhookOptions{}, nil, nil)
	if unconfigured.VerifySignature(SignPOSPayload("", "", body), body) {
		t.Fatalf("missing key should reject every signature")
	}
}

func TestParseInventoryWebhook(t *testing.T) {
	event, counts, err := ParseInventoryWebhook([]byte(inventoryEventBody))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if event.EventID != "evt-1" || len(counts) != 2 {
		t.Fatalf("unexpected parse result: %+v %+v", event, counts)
	}
	if counts[0].Quantity != 12 || counts[0].CalculatedAt.IsZero() {
		t.Fatalf("unexpected first count: %+v", counts[0])
	}
	if counts[1].Quantity != 1 {
		t.Fatalf("decimal quantity should truncate to 1, got %d", counts[1].Quantity)
	}

	for _, body := range []string{`not json`, `{"type": ""}`, `{"type":"inventory.count.updated","data":{"object":{"inventory_counts":[{"catalog_object_id":"x","quantity":"lots"}]}}}`} {
		if _, _, err := ParseInventoryWebhook([]byte(body)); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("body %q want ErrInvalidPayload got %v", body, err)
		}
	}
}

func TestParsePOSQuantityBounds(t *testing.T) {
	valid := map[string]int{"": 0, "7": 7, "12.900": 12, "-3": 0, "2147483647": math.MaxInt32}
	for raw, want := range valid {
		got, err := parsePOSQuantity(raw)
		if err != nil || got != want {
			t.Fatalf("quantity %q want %d got %d err=%v", raw, want, got, err)
		}
	}
	for _, raw := range []string{"NaN", "Inf", "-Inf", "1e30", "2147483648", "1e400"} {
		if _, err := parsePOSQuantity(raw); err == nil {
			t.Fatalf("quantity %q should be rejected", raw)
		}
	}

	body := `{"type":"inventory.count.updated","data":{"object":{"inventory_counts":[{"catalog_object_id":"x","quantity":"1e30"}]}}}`
	if _, _, err := ParseInventoryWebhook([]byte(body)); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("huge quantity want ErrInvalidPayload got %v", err)
	}
}

func TestHandleInventoryWebhookInline(t *testing.T) {
	db := setupCatalogDB(t)
	syncSvc := NewCatalogSyncService(repository.NewCatalogSyncRepository(db))
	if _, err := syncSvc.ApplySnapshot(context.Background(), demoSnapshot()); err != nil {
		t.Fatalf("apply snapshot failed: %v", err)
	}
	svc := NewPOSWebhookService(POSWebhookOptions{SignatureKey: "secret", NotificationURL: testNotificationURL}, syncSvc, nil)
	body := []byte(inventoryEventBody)

	result, err := svc.Handle(context.Background(), SignPOSPayload("secret", testNotificationURL, body), body)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if result.Queued || result.Applied != 2 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if _, err := svc.Handle(context.Background(), "bogus", body); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("bad signature want ErrInvalidSignature got %v", err)
	}
}

func TestHandleInventoryWebhookQueued(t *testing.T) {
	enqueuer := &inventoryEnqueuerStub{enabled: true}
	svc := NewPOSWebhookService(POSWebhookOptions{SignatureKey: "secret", NotificationURL: testNotificationURL}, nil, nil)
	svc.enqueuer = enqueuer
	body := []byte(inventoryEventBody)

	result, err := svc.Handle(context.Background(), SignPOSPayload("secret", testNotificationURL, body), body)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !result.Queued || len(enqueuer.payloads) != 1 {
		t.Fatalf("counts should be enqueued, got %+v", result)
	}
	counts := InventoryCountsFromPayload(enqueuer.payloads[0])
	if len(counts) != 2 || counts[0].VariationExternalID != "VAR-1" {
		t.Fatalf("payload round trip mismatch: %+v", counts)
	}
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	svc := NewPOSWebhookService(POSWebhookOptions{SignatureKey: "secret"}, nil, nil)
	body := []byte(`{"event_id":"evt-2","type":"catalog.version.updated"}`)
	result, err := svc.Handle(context.Background(), SignPOSPayload("secret", "", body), body)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !result.Ignored {
		t.Fatalf("other event types should be ignored, got %+v", result)
	}
}
