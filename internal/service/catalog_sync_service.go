package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nearshelf/internal/cache"
	"github.com/nearshelf/internal/constants"
	"github.com/nearshelf/internal/logger"
	"github.com/nearshelf/internal/metrics"
	"github.com/nearshelf/internal/models"
	"github.com/nearshelf/internal/repository"
)

// MerchantSnapshot POS 门店快照
type MerchantSnapshot struct {
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	Street     string  `json:"street"`
	City       string  `json:"city"`
	Region     string  `json:"region"`
	Postcode   string  `json:"postcode"`
	Country    string  `json:"country"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	IsActive   bool    `json:"is_active"`
}

// VariationSnapshot POS 规格快照，金额以分计
type VariationSnapshot struct {
	ExternalID string            `json:"external_id"`
	Name       string            `json:"name"`
	PriceCents int64             `json:"price_cents"`
	Attributes map[string]string `json:"attributes"`
	Quantity   int               `json:"quantity"`
}

// ProductSnapshot POS 商品快照
type ProductSnapshot struct {
	ExternalID     string              `json:"external_id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Category       string              `json:"category"`
	ImageURL       string              `json:"image_url"`
	BasePriceCents *int64              `json:"base_price_cents"`
	IsActive       bool                `json:"is_active"`
	Variations     []VariationSnapshot `json:"variations"`
}

// CatalogSnapshot 单个门店的完整目录
type CatalogSnapshot struct {
	Merchant MerchantSnapshot  `json:"merchant"`
	Products []ProductSnapshot `json:"products"`
	SyncedAt time.Time         `json:"synced_at"`
}

// InventoryCount 单条库存盘点（按 POS 规格ID）
type InventoryCount struct {
	VariationExternalID string
	Quantity            int
	State               string
	CalculatedAt        time.Time
}

// SyncResult 同步统计
type SyncResult struct {
	Merchants   int `json:"merchants"`
	Products    int `json:"products"`
	Variations  int `json:"variations"`
	Inventory   int `json:"inventory"`
	Skipped     int `json:"skipped"`
	Deactivated int `json:"deactivated"`
}

// CatalogSyncService POS 目录同步
type CatalogSyncService struct {
	repo repository.CatalogSyncRepository
	now  func() time.Time
}

// NewCatalogSyncService 创建同步服务
func NewCatalogSyncService(repo repository.CatalogSyncRepository) *CatalogSyncService {
	return &CatalogSyncService{repo: repo, now: time.Now}
}

// ApplySnapshot 在一个事务内全量写入门店目录：门店 → 商品 → 规格 → 库存；
// 快照中缺失的商品下架，缺失规格的库存清零
func (s *CatalogSyncService) ApplySnapshot(ctx context.Context, snapshot CatalogSnapshot) (*SyncResult, error) {
	if s == nil || s.repo == nil {
		return nil, ErrSyncUnavailable
	}
	if strings.TrimSpace(snapshot.Merchant.ExternalID) == "" {
		return nil, NewValidationError("merchant.external_id", "is required")
	}
	syncedAt := snapshot.SyncedAt
	if syncedAt.IsZero() {
		syncedAt = s.now()
	}

	result := &SyncResult{}
	var touched []uint
	err := s.repo.Transaction(ctx, func(tx repository.CatalogSyncRepository) error {
		merchant := &models.Merchant{
			ExternalID: strings.TrimSpace(snapshot.Merchant.ExternalID),
			Name:       strings.TrimSpace(snapshot.Merchant.Name),
			Street:     snapshot.Merchant.Street,
			City:       snapshot.Merchant.City,
			Region:     snapshot.Merchant.Region,
			Postcode:   snapshot.Merchant.Postcode,
			Country:    snapshot.Merchant.Country,
			Latitude:   snapshot.Merchant.Latitude,
			Longitude:  snapshot.Merchant.Longitude,
			IsActive:   snapshot.Merchant.IsActive,
		}
		if err := tx.UpsertMerchant(ctx, merchant); err != nil {
			return fmt.Errorf("upsert merchant %s: %w", merchant.ExternalID, err)
		}
		result.Merchants++

		var keptProducts []string
		for _, item := range snapshot.Products {
			if strings.TrimSpace(item.ExternalID) == "" {
				result.Skipped++
				continue
			}
			product := &models.Product{
				ExternalID:  strings.TrimSpace(item.ExternalID),
				MerchantID:  merchant.ID,
				Name:        strings.TrimSpace(item.Name),
				Description: item.Description,
				Category:    item.Category,
				ImageURL:    item.ImageURL,
				IsActive:    item.IsActive,
			}
			if item.BasePriceCents != nil {
				price := models.NewMoneyFromMinorUnits(*item.BasePriceCents)
				product.BasePrice = &price
			}
			if err := tx.UpsertProduct(ctx, product); err != nil {
				return fmt.Errorf("upsert product %s: %w", product.ExternalID, err)
			}
			result.Products++
			touched = append(touched, product.ID)
			keptProducts = append(keptProducts, product.ExternalID)

			var keptVariations []uint
			for _, v := range item.Variations {
				if strings.TrimSpace(v.ExternalID) == "" {
					result.Skipped++
					continue
				}
				variation := &models.ProductVariation{
					ExternalID: strings.TrimSpace(v.ExternalID),
					ProductID:  product.ID,
					Name:       strings.TrimSpace(v.Name),
					Price:      models.NewMoneyFromMinorUnits(v.PriceCents),
					Attributes: models.Attributes(v.Attributes),
				}
				if err := tx.UpsertVariation(ctx, variation); err != nil {
					return fmt.Errorf("upsert variation %s: %w", variation.ExternalID, err)
				}
				result.Variations++

				if err := tx.UpsertInventory(ctx, &models.Inventory{
					ProductID:   product.ID,
					VariationID: variation.ID,
					Quantity:    v.Quantity,
					LastSyncAt:  syncedAt,
				}); err != nil {
					return fmt.Errorf("upsert inventory %s: %w", variation.ExternalID, err)
				}
				result.Inventory++
				keptVariations = append(keptVariations, variation.ID)
			}
			if _, err := tx.ClearInventoryExcept(ctx, product.ID, keptVariations); err != nil {
				return fmt.Errorf("clear removed variations of %s: %w", product.ExternalID, err)
			}
		}

		deactivated, err := tx.DeactivateProductsExcept(ctx, merchant.ID, keptProducts)
		if err != nil {
			return fmt.Errorf("deactivate removed products: %w", err)
		}
		result.Deactivated = len(deactivated)
		touched = append(touched, deactivated...)
		return nil
	})
	if err != nil {
		logger.Errorw("catalog_snapshot_apply_failed", "merchant_external_id", snapshot.Merchant.ExternalID, "error", err)
		return nil, err
	}
	invalidateProductDetails(ctx, touched)
	logger.Infow("catalog_snapshot_applied",
		"merchant_external_id", snapshot.Merchant.ExternalID,
		"products", result.Products,
		"variations", result.Variations,
		"skipped", result.Skipped,
		"deactivated", result.Deactivated,
	)
	return result, nil
}

// ApplyInventoryCounts 增量更新库存；未知规格或非在库状态的盘点跳过并计数
func (s *CatalogSyncService) ApplyInventoryCounts(ctx context.Context, counts []InventoryCount) (*SyncResult, error) {
	if s == nil || s.repo == nil {
		return nil, ErrSyncUnavailable
	}
	result := &SyncResult{}
	var touched []uint
	if len(counts) == 0 {
		return result, nil
	}

	externalIDs := make([]string, 0, len(counts))
	for _, count := range counts {
		if id := strings.TrimSpace(count.VariationExternalID); id != "" {
			externalIDs = append(externalIDs, id)
		}
	}

	err := s.repo.Transaction(ctx, func(tx repository.CatalogSyncRepository) error {
		variations, err := tx.ListVariationsByExternalIDs(ctx, externalIDs)
		if err != nil {
			return fmt.Errorf("list variations: %w", err)
		}
		byExternalID := make(map[string]models.ProductVariation, len(variations))
		for _, variation := range variations {
			byExternalID[variation.ExternalID] = variation
		}

		for _, count := range counts {
			state := strings.ToUpper(strings.TrimSpace(count.State))
			variation, ok := byExternalID[strings.TrimSpace(count.VariationExternalID)]
			if !ok || (state != "" && state != constants.POSInventoryStateInStock) {
				result.Skipped++
				continue
			}
			syncedAt := count.CalculatedAt
			if syncedAt.IsZero() {
				syncedAt = s.now()
			}
			if err := tx.UpsertInventory(ctx, &models.Inventory{
				ProductID:   variation.ProductID,
				VariationID: variation.ID,
				Quantity:    count.Quantity,
				LastSyncAt:  syncedAt,
			}); err != nil {
				return fmt.Errorf("upsert inventory %s: %w", variation.ExternalID, err)
			}
			result.Inventory++
			touched = append(touched, variation.ProductID)
		}
		return nil
	})
	if err != nil {
		logger.Errorw("inventory_counts_apply_failed", "counts", len(counts), "error", err)
		return nil, err
	}
	invalidateProductDetails(ctx, touched)
	metrics.InventoryCountsTotal.WithLabelValues("applied").Add(float64(result.Inventory))
	metrics.InventoryCountsTotal.WithLabelValues("skipped").Add(float64(result.Skipped))
	if result.Skipped > 0 {
		logger.Infow("inventory_counts_skipped", "skipped", result.Skipped, "applied", result.Inventory)
	}
	return result, nil
}

func invalidateProductDetails(ctx context.Context, productIDs []uint) {
	if err := cache.InvalidateProductDetails(ctx, productIDs); err != nil {
		logger.Warnw("product_detail_cache_invalidate_failed", "products", len(productIDs), "error", err)
	}
}
