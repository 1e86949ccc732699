package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nearshelf/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogSyncRepository POS 同步写入接口（按自然键 upsert）
type CatalogSyncRepository interface {
	UpsertMerchant(ctx context.Context, merchant *models.Merchant) error
	UpsertProduct(ctx context.Context, product *models.Product) error
	UpsertVariation(ctx context.Context, variation *models.ProductVariation) error
	UpsertInventory(ctx context.Context, inventory *models.Inventory) error
	ListVariationsByExternalIDs(ctx context.Context, externalIDs []string) ([]models.ProductVariation, error)
	DeactivateProductsExcept(ctx context.Context, merchantID uint, keepExternalIDs []string) ([]uint, error)
	ClearInventoryExcept(ctx context.Context, productID uint, keepVariationIDs []uint) (int64, error)
	Transaction(ctx context.Context, fn func(repo CatalogSyncRepository) error) error
}

// GormCatalogSyncRepository GORM 实现
type GormCatalogSyncRepository struct {
	db *gorm.DB
}

// NewCatalogSyncRepository 创建同步仓库
func NewCatalogSyncRepository(db *gorm.DB) *GormCatalogSyncRepository {
	return &GormCatalogSyncRepository{db: db}
}

// Transaction 在同一事务内执行多次 upsert
func (r *GormCatalogSyncRepository) Transaction(ctx context.Context, fn func(repo CatalogSyncRepository) error) error {
	if fn == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormCatalogSyncRepository{db: tx})
	})
}

// UpsertMerchant 按 external_id upsert 商户，并回填主键
func (r *GormCatalogSyncRepository) UpsertMerchant(ctx context.Context, merchant *models.Merchant) error {
	if merchant == nil || strings.TrimSpace(merchant.ExternalID) == "" {
		return errors.New("merchant external id is required")
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "street", "city", "region", "postcode", "country",
				"latitude", "longitude", "is_active", "updated_at",
			}),
		}).
		Create(merchant).Error
	if err != nil {
		return err
	}
	return r.reloadID(ctx, &models.Merchant{}, merchant.ExternalID, &merchant.ID)
}

// UpsertProduct 按 external_id upsert 商品，并回填主键
func (r *GormCatalogSyncRepository) UpsertProduct(ctx context.Context, product *models.Product) error {
	if product == nil || strings.TrimSpace(product.ExternalID) == "" {
		return errors.New("product external id is required")
	}
	if product.MerchantID == 0 {
		return errors.New("product merchant id is required")
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"merchant_id", "name", "description", "category", "image_url",
				"base_price", "is_active", "search_text", "category_key", "updated_at",
			}),
		}).
		Create(product).Error
	if err != nil {
		return err
	}
	return r.reloadID(ctx, &models.Product{}, product.ExternalID, &product.ID)
}

// UpsertVariation 按 external_id upsert 规格，并回填主键
func (r *GormCatalogSyncRepository) UpsertVariation(ctx context.Context, variation *models.ProductVariation) error {
	if variation == nil || strings.TrimSpace(variation.ExternalID) == "" {
		return errors.New("variation external id is required")
	}
	if variation.ProductID == 0 {
		return errors.New("variation product id is required")
	}
	if variation.Attributes == nil {
		variation.Attributes = models.Attributes{}
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"product_id", "name", "price", "attributes", "updated_at",
			}),
		}).
		Create(variation).Error
	if err != nil {
		return err
	}
	return r.reloadID(ctx, &models.ProductVariation{}, variation.ExternalID, &variation.ID)
}

// UpsertInventory 按 (product_id, variation_id) upsert 库存，数量与同步时间整体替换
func (r *GormCatalogSyncRepository) UpsertInventory(ctx context.Context, inventory *models.Inventory) error {
	if inventory == nil || inventory.ProductID == 0 || inventory.VariationID == 0 {
		return errors.New("inventory product id and variation id are required")
	}
	if inventory.Quantity < 0 {
		inventory.Quantity = 0
	}
	if inventory.LastSyncAt.IsZero() {
		inventory.LastSyncAt = time.Now()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "variation_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "last_sync_at", "updated_at"}),
		}).
		Create(inventory).Error
}

// ListVariationsByExternalIDs 根据 POS 规格ID批量查询规格
func (r *GormCatalogSyncRepository) ListVariationsByExternalIDs(ctx context.Context, externalIDs []string) ([]models.ProductVariation, error) {
	if len(externalIDs) == 0 {
		return []models.ProductVariation{}, nil
	}
	var variations []models.ProductVariation
	if err := r.db.WithContext(ctx).Where("external_id IN ?", externalIDs).Find(&variations).Error; err != nil {
		return nil, err
	}
	return variations, nil
}

// DeactivateProductsExcept 下架商户名下不在保留列表中的商品，返回被下架的商品ID
func (r *GormCatalogSyncRepository) DeactivateProductsExcept(ctx context.Context, merchantID uint, keepExternalIDs []string) ([]uint, error) {
	if merchantID == 0 {
		return nil, errors.New("merchant id is required")
	}
	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("merchant_id = ? AND is_active = ?", merchantID, true)
	if len(keepExternalIDs) > 0 {
		query = query.Where("external_id NOT IN ?", keepExternalIDs)
	}
	var ids []uint
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ClearInventoryExcept 将商品下不在保留列表中的规格库存清零，返回受影响行数
func (r *GormCatalogSyncRepository) ClearInventoryExcept(ctx context.Context, productID uint, keepVariationIDs []uint) (int64, error) {
	if productID == 0 {
		return 0, errors.New("product id is required")
	}
	query := r.db.WithContext(ctx).Model(&models.Inventory{}).
		Where("product_id = ? AND quantity > ?", productID, 0)
	if len(keepVariationIDs) > 0 {
		query = query.Where("variation_id NOT IN ?", keepVariationIDs)
	}
	result := query.Updates(map[string]interface{}{"quantity": 0, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// reloadID upsert 命中冲突时部分驱动不回写主键，这里按自然键回查
func (r *GormCatalogSyncRepository) reloadID(ctx context.Context, model interface{}, externalID string, id *uint) error {
	var row struct {
		ID uint
	}
	if err := r.db.WithContext(ctx).Model(model).Select("id").Where("external_id = ?", externalID).Take(&row).Error; err != nil {
		return err
	}
	*id = row.ID
	return nil
}
