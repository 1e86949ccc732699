package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/nearshelf/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository 目录只读访问接口
type CatalogRepository interface {
	SearchCandidates(ctx context.Context, filter CandidateFilter) ([]models.Product, error)
	GetProductByID(ctx context.Context, id uint) (*models.Product, error)
}

// GormCatalogRepository GORM 实现
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建目录仓库
func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// candidateTextColumns 写入时已小写化的匹配列（覆盖名称、描述、分类）
var candidateTextColumns = []string{"products.search_text"}

// SearchCandidates 按文本匹配查询上架商品（所属商户需营业），并预加载商户、规格与库存
func (r *GormCatalogRepository) SearchCandidates(ctx context.Context, filter CandidateFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*").
		Joins("JOIN merchants ON merchants.id = products.merchant_id").
		Where("products.is_active = ? AND merchants.is_active = ?", true, true)

	if term := strings.TrimSpace(filter.Query); term != "" {
		condition, argCount := buildContainsCondition(r.db, candidateTextColumns)
		query = query.Where(condition, repeatArgs(containsPattern(term), argCount)...)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		condition, argCount := buildContainsCondition(r.db, []string{"products.category_key"})
		query = query.Where(condition, repeatArgs(containsPattern(category), argCount)...)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []models.Product
	if err := withCatalogDetail(query).Order("products.id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductByID 根据 ID 获取商品详情（不区分上架状态）
func (r *GormCatalogRepository) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := withCatalogDetail(r.db.WithContext(ctx)).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func withCatalogDetail(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Merchant").
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variations.id ASC")
		}).
		Preload("Variations.Inventory")
}
