package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nearshelf/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// openTestDB 每个用例独立的内存库
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate catalog failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type catalogFixture struct {
	merchantExternalID string
	merchantName       string
	latitude           float64
	longitude          float64
	merchantActive     bool
	productExternalID  string
	productName        string
	description        string
	category           string
	productActive      bool
	quantities         []int
}

// seedCatalog 通过同步仓库写入一组商户/商品/规格/库存
func seedCatalog(t *testing.T, db *gorm.DB, fixture catalogFixture) *models.Product {
	t.Helper()
	repo := NewCatalogSyncRepository(db)
	ctx := t.Context()

	merchant := &models.Merchant{
		ExternalID: fixture.merchantExternalID,
		Name:       fixture.merchantName,
		City:       "Byron Bay",
		Country:    "AU",
		Latitude:   fixture.latitude,
		Longitude:  fixture.longitude,
		IsActive:   true,
	}
	if err := repo.UpsertMerchant(ctx, merchant); err != nil {
		t.Fatalf("upsert merchant failed: %v", err)
	}
	if !fixture.merchantActive {
		if err := db.Model(&models.Merchant{}).Where("id = ?", merchant.ID).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate merchant failed: %v", err)
		}
	}

	product := &models.Product{
		ExternalID:  fixture.productExternalID,
		MerchantID:  merchant.ID,
		Name:        fixture.productName,
		Description: fixture.description,
		Category:    fixture.category,
		IsActive:    true,
	}
	if err := repo.UpsertProduct(ctx, product); err != nil {
		t.Fatalf("upsert product failed: %v", err)
	}
	if !fixture.productActive {
		if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product failed: %v", err)
		}
	}

	for idx, quantity := range fixture.quantities {
		variation := &models.ProductVariation{
			ExternalID: fmt.Sprintf("%s-v%d", fixture.productExternalID, idx+1),
			ProductID:  product.ID,
			Name:       fmt.Sprintf("Size %d", idx+1),
			Price:      models.NewMoneyFromMinorUnits(6000),
			Attributes: models.Attributes{"size": fmt.Sprintf("%d", idx+1)},
		}
		if err := repo.UpsertVariation(ctx, variation); err != nil {
			t.Fatalf("upsert variation failed: %v", err)
		}
		if err := repo.UpsertInventory(ctx, &models.Inventory{
			ProductID:   product.ID,
			VariationID: variation.ID,
			Quantity:    quantity,
		}); err != nil {
			t.Fatalf("upsert inventory failed: %v", err)
		}
	}
	return product
}
