package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nearshelf/internal/models"
)

func TestGetProductWithDistance(t *testing.T) {
	product := productNorthOf(7, "Linen Shirt", 3.26, 2, 5)
	product.Description = "breezy"
	price := models.NewMoneyFromMinorUnits(4500)
	product.BasePrice = &price
	svc := NewCatalogService(&catalogRepoStub{products: []models.Product{product}})

	view, err := svc.GetProduct(context.Background(), ProductDetailInput{
		ID:        7,
		Latitude:  floatPtr(byronBay.Latitude),
		Longitude: floatPtr(byronBay.Longitude),
	})
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if view.Merchant.Distance == nil || *view.Merchant.Distance != 3.3 {
		t.Fatalf("distance want 3.3 got %v", view.Merchant.Distance)
	}
	if view.TotalStock != 7 || len(view.Variations) != 2 {
		t.Fatalf("unexpected detail: %+v", view)
	}
	if view.Variations[0].Inventory == nil || view.Variations[0].Inventory.Quantity != 2 {
		t.Fatalf("variation inventory missing: %+v", view.Variations[0])
	}

	body, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view failed: %v", err)
	}
	for _, fragment := range []string{`"imageUrl":null`, `"price":45.00`, `"description":"breezy"`, `"totalStock":7`, `"updatedAt":"2026-01-02T03:04:05Z"`} {
		if !strings.Contains(string(body), fragment) {
			t.Fatalf("json should contain %s, got %s", fragment, body)
		}
	}
}

func TestGetProductWithoutCoordinateOmitsDistance(t *testing.T) {
	svc := NewCatalogService(&catalogRepoStub{products: []models.Product{productNorthOf(7, "Cap", 1, 1)}})

	view, err := svc.GetProduct(context.Background(), ProductDetailInput{ID: 7, Latitude: floatPtr(-28.6)})
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if view.Merchant.Distance != nil {
		t.Fatalf("distance should be omitted without a full coordinate, got %v", *view.Merchant.Distance)
	}
	body, _ := json.Marshal(view)
	if strings.Contains(string(body), `"distance"`) {
		t.Fatalf("distance key should be omitted, got %s", body)
	}
}

func TestGetProductReturnsInactiveProduct(t *testing.T) {
	product := productNorthOf(9, "Retired", 1, 1)
	product.IsActive = false
	product.Merchant.IsActive = false
	svc := NewCatalogService(&catalogRepoStub{products: []models.Product{product}})

	if _, err := svc.GetProduct(context.Background(), ProductDetailInput{ID: 9}); err != nil {
		t.Fatalf("inactive product should still resolve, got %v", err)
	}
}

func TestGetProductErrors(t *testing.T) {
	svc := NewCatalogService(&catalogRepoStub{})
	if _, err := svc.GetProduct(context.Background(), ProductDetailInput{ID: 404}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing product want ErrNotFound got %v", err)
	}
	if _, err := svc.GetProduct(context.Background(), ProductDetailInput{}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("zero id want ErrInvalidParams got %v", err)
	}
	if _, err := svc.GetProduct(context.Background(), ProductDetailInput{ID: 1, Latitude: floatPtr(-100), Longitude: floatPtr(0)}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("bad latitude want ErrInvalidParams got %v", err)
	}

	failing := NewCatalogService(&catalogRepoStub{err: errors.New("db down")})
	_, err := failing.GetProduct(context.Background(), ProductDetailInput{ID: 1})
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidParams) {
		t.Fatalf("store failure should be internal, got %v", err)
	}
}
