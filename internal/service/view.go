package service

import (
	"time"

	"github.com/nearshelf/internal/geo"
	"github.com/nearshelf/internal/models"
)

// ProductView 对外输出的商品结构
type ProductView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	ImageURL    *string         `json:"imageUrl"`
	Price       *models.Money   `json:"price"`
	Merchant    MerchantView    `json:"merchant"`
	Variations  []VariationView `json:"variations"`
	TotalStock  int             `json:"totalStock"`
}

// MerchantView 商户信息，distance 为空表示未提供查询坐标
type MerchantView struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Address   AddressView `json:"address"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Distance  *float64    `json:"distance,omitempty"`
}

// AddressView 商户地址
type AddressView struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// VariationView 规格信息
type VariationView struct {
	ID         uint              `json:"id"`
	Name       string            `json:"name"`
	Price      models.Money      `json:"price"`
	Attributes map[string]string `json:"attributes"`
	Inventory  *InventoryView    `json:"inventory"`
}

// InventoryView 规格库存
type InventoryView struct {
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pagination 分页信息（始终单页）
type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// SearchMeta 搜索元信息
type SearchMeta struct {
	Query      string         `json:"query"`
	Location   geo.Coordinate `json:"location"`
	Radius     float64        `json:"radius"`
	SearchTime int64          `json:"searchTime"` // 毫秒
}

// SearchResult 搜索结果
type SearchResult struct {
	Products   []ProductView `json:"products"`
	Pagination Pagination    `json:"pagination"`
	SearchMeta SearchMeta    `json:"searchMeta"`
}

// buildProductView 组装商品视图；distance 为空时不输出距离
func buildProductView(product *models.Product, distance *float64) ProductView {
	view := ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: optionalString(product.Description),
		Category:    optionalString(product.Category),
		ImageURL:    optionalString(product.ImageURL),
		Price:       product.BasePrice,
		Merchant: MerchantView{
			ID:   product.Merchant.ID,
			Name: product.Merchant.Name,
			Address: AddressView{
				Street:   product.Merchant.Street,
				City:     product.Merchant.City,
				Region:   product.Merchant.Region,
				Postcode: product.Merchant.Postcode,
				Country:  product.Merchant.Country,
			},
			Latitude:  product.Merchant.Latitude,
			Longitude: product.Merchant.Longitude,
			Distance:  distance,
		},
		Variations: make([]VariationView, 0, len(product.Variations)),
		TotalStock: product.TotalStock(),
	}
	for i := range product.Variations {
		variation := &product.Variations[i]
		item := VariationView{
			ID:         variation.ID,
			Name:       variation.Name,
			Price:      variation.Price,
			Attributes: map[string]string(variation.Attributes),
		}
		if item.Attributes == nil {
			item.Attributes = map[string]string{}
		}
		if variation.Inventory != nil {
			item.Inventory = &InventoryView{
				Quantity:  variation.Inventory.Quantity,
				UpdatedAt: variation.Inventory.LastSyncAt,
			}
		}
		view.Variations = append(view.Variations, item)
	}
	return view
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
