package models

import "time"

// Inventory 库存表，(product_id, variation_id) 唯一
type Inventory struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                                     // 主键
	ProductID   uint      `gorm:"not null;uniqueIndex:idx_inventory_product_variation" json:"product_id"`   // 商品ID
	VariationID uint      `gorm:"not null;uniqueIndex:idx_inventory_product_variation" json:"variation_id"` // 规格ID
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`                                       // 在库数量
	LastSyncAt  time.Time `gorm:"not null" json:"last_sync_at"`                                             // 最近同步时间
	CreatedAt   time.Time `json:"created_at"`                                                               // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                                               // 更新时间
}

// TableName 指定表名
func (Inventory) TableName() string {
	return "inventory"
}
