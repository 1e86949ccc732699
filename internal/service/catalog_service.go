package service

import (
	"context"
	"fmt"

	"github.com/nearshelf/internal/cache"
	"github.com/nearshelf/internal/geo"
	"github.com/nearshelf/internal/logger"
	"github.com/nearshelf/internal/repository"
)

// ProductDetailInput 商品详情输入
type ProductDetailInput struct {
	ID        uint     `json:"id" validate:"required"`
	Latitude  *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
}

// CatalogService 商品详情查询
type CatalogService struct {
	repo repository.CatalogRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// GetProduct 获取商品详情；同时传入经纬度时计算到商户的距离
// 不校验上架与营业状态，只要记录存在即返回
func (s *CatalogService) GetProduct(ctx context.Context, input ProductDetailInput) (*ProductView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	view, err := s.loadProductView(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Latitude != nil && input.Longitude != nil {
		km := geo.RoundDistance(geo.Distance(
			geo.Coordinate{Latitude: *input.Latitude, Longitude: *input.Longitude},
			geo.Coordinate{Latitude: view.Merchant.Latitude, Longitude: view.Merchant.Longitude},
		))
		view.Merchant.Distance = &km
	}
	return view, nil
}

// loadProductView 先读缓存，未命中再查库并回写；缓存异常不影响查询
func (s *CatalogService) loadProductView(ctx context.Context, id uint) (*ProductView, error) {
	key := cache.ProductDetailKey(id)
	var cached ProductView
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("product_detail_cache_get_failed", "product_id", id, "error", err)
	}
	if hit {
		cached.Merchant.Distance = nil
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	view := buildProductView(product, nil)
	if err := cache.SetJSON(ctx, key, view, cache.ProductDetailTTL); err != nil {
		logger.Warnw("product_detail_cache_set_failed", "product_id", id, "error", err)
	}
	return &view, nil
}
