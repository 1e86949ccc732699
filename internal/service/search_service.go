package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nearshelf/internal/config"
	"github.com/nearshelf/internal/constants"
	"github.com/nearshelf/internal/geo"
	"github.com/nearshelf/internal/logger"
	"github.com/nearshelf/internal/metrics"
	"github.com/nearshelf/internal/models"
	"github.com/nearshelf/internal/repository"
)

// SearchRecorder 搜索日志记录器，实现方不得阻塞调用方
type SearchRecorder interface {
	Record(ctx context.Context, entry SearchLogEntry)
}

// SearchLogEntry 单次搜索的分析记录
type SearchLogEntry struct {
	Query     string
	Location  geo.Coordinate
	RadiusKM  float64
	Results   int
	RequestID string
	CreatedAt time.Time
}

// SearchDefaults 搜索参数默认值
type SearchDefaults struct {
	Location geo.Coordinate
	RadiusKM float64
	Limit    int
}

// SearchInput 搜索输入，指针字段为空表示未传
type SearchInput struct {
	Query     string   `json:"query" validate:"required,max=100"`
	Latitude  *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	RadiusKM  *float64 `json:"radius" validate:"omitempty,gte=1,lte=50"`
	Limit     *int     `json:"limit" validate:"omitempty,gte=1,lte=100"`
	Category  string   `json:"category" validate:"max=100"`
	InStock   *bool    `json:"inStock"`
	RequestID string   `json:"-"`
}

// SearchCriteria 解析默认值后的搜索条件
type SearchCriteria struct {
	Query    string
	Origin   geo.Coordinate
	RadiusKM float64
	Limit    int
	Category string
	InStock  bool
}

// SearchService 附近商品搜索
type SearchService struct {
	repo     repository.CatalogRepository
	recorder SearchRecorder
	defaults SearchDefaults
	now      func() time.Time
}

// NewSearchService 创建搜索服务，recorder 可为空
func NewSearchService(repo repository.CatalogRepository, recorder SearchRecorder, defaults SearchDefaults) *SearchService {
	return &SearchService{
		repo:     repo,
		recorder: recorder,
		defaults: normalizeSearchDefaults(defaults),
		now:      time.Now,
	}
}

func normalizeSearchDefaults(defaults SearchDefaults) SearchDefaults {
	if !geo.ValidCoordinate(defaults.Location) || (defaults.Location == geo.Coordinate{}) {
		defaults.Location = geo.Coordinate{Latitude: config.DefaultMarketLatitude, Longitude: config.DefaultMarketLongitude}
	}
	if defaults.RadiusKM < constants.SearchRadiusMinKM || defaults.RadiusKM > constants.SearchRadiusMaxKM {
		defaults.RadiusKM = 10
	}
	if defaults.Limit < constants.SearchLimitMin || defaults.Limit > constants.SearchLimitMax {
		defaults.Limit = 20
	}
	return defaults
}

// Resolve 校验输入并填充默认值；经纬度缺任意一个时整体回退到默认位置
func (s *SearchService) Resolve(input SearchInput) (SearchCriteria, error) {
	input.Query = strings.TrimSpace(input.Query)
	input.Category = strings.TrimSpace(input.Category)
	if err := validateInput(input); err != nil {
		return SearchCriteria{}, err
	}

	criteria := SearchCriteria{
		Query:    input.Query,
		Origin:   s.defaults.Location,
		RadiusKM: s.defaults.RadiusKM,
		Limit:    s.defaults.Limit,
		Category: input.Category,
		InStock:  true,
	}
	if input.Latitude != nil && input.Longitude != nil {
		criteria.Origin = geo.Coordinate{Latitude: *input.Latitude, Longitude: *input.Longitude}
	}
	if input.RadiusKM != nil {
		criteria.RadiusKM = *input.RadiusKM
	}
	if input.Limit != nil {
		criteria.Limit = *input.Limit
	}
	if input.InStock != nil {
		criteria.InStock = *input.InStock
	}
	return criteria, nil
}

type rankedProduct struct {
	product  *models.Product
	distance float64
	stock    int
}

// Search 执行搜索：文本候选 → 半径/库存过滤 → 排序 → 截断 → 距离取整 → 记录日志
func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	criteria, err := s.Resolve(input)
	if err != nil {
		return nil, err
	}

	started := s.now()
	candidates, err := s.repo.SearchCandidates(ctx, repository.CandidateFilter{
		Query:    criteria.Query,
		Category: criteria.Category,
		Limit:    criteria.Limit * constants.SearchOverFetchFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("load search candidates: %w", err)
	}

	ranked := rankCandidates(candidates, criteria)
	products := make([]ProductView, 0, len(ranked))
	for _, item := range ranked {
		distance := geo.RoundDistance(item.distance)
		products = append(products, buildProductView(item.product, &distance))
	}

	elapsed := s.now().Sub(started)
	metrics.ObserveSearch(elapsed, len(candidates), len(products))
	logger.Debugw("search_executed",
		"request_id", input.RequestID,
		"query", criteria.Query,
		"candidates", len(candidates),
		"results", len(products),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	if s.recorder != nil {
		s.recorder.Record(ctx, SearchLogEntry{
			Query:     criteria.Query,
			Location:  criteria.Origin,
			RadiusKM:  criteria.RadiusKM,
			Results:   len(products),
			RequestID: input.RequestID,
			CreatedAt: started,
		})
	}

	return &SearchResult{
		Products: products,
		Pagination: Pagination{
			Total:   len(products),
			Page:    1,
			Limit:   criteria.Limit,
			HasMore: false,
		},
		SearchMeta: SearchMeta{
			Query:      criteria.Query,
			Location:   criteria.Origin,
			Radius:     criteria.RadiusKM,
			SearchTime: elapsed.Milliseconds(),
		},
	}, nil
}

// rankCandidates 过滤并排序候选商品，按未取整距离比较，结果不超过 limit
func rankCandidates(candidates []models.Product, criteria SearchCriteria) []rankedProduct {
	ranked := make([]rankedProduct, 0, len(candidates))
	for i := range candidates {
		product := &candidates[i]
		distance := geo.Distance(criteria.Origin, geo.Coordinate{
			Latitude:  product.Merchant.Latitude,
			Longitude: product.Merchant.Longitude,
		})
		// 原始距离与对外展示的取整距离都不得超过半径
		if distance > criteria.RadiusKM || geo.RoundDistance(distance) > criteria.RadiusKM {
			continue
		}
		stock := product.TotalStock()
		if criteria.InStock && stock == 0 {
			continue
		}
		ranked = append(ranked, rankedProduct{product: product, distance: distance, stock: stock})
	}

	slices.SortStableFunc(ranked, func(a, b rankedProduct) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		if c := cmp.Compare(b.stock, a.stock); c != 0 {
			return c
		}
		return strings.Compare(a.product.Name, b.product.Name)
	})

	if len(ranked) > criteria.Limit {
		ranked = ranked[:criteria.Limit]
	}
	return ranked
}
