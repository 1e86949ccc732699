package models

import "time"

// ProductVariation 商品规格表（尺码/颜色等，各自定价与库存）
type ProductVariation struct {
	ID         uint       `gorm:"primarykey" json:"id"`                                     // 主键
	ExternalID string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"external_id"` // POS 平台规格ID
	ProductID  uint       `gorm:"not null;index" json:"product_id"`                         // 所属商品
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`                   // 规格名称
	Price      Money      `gorm:"type:decimal(20,2);not null;default:0" json:"price"`       // 规格价格
	Attributes Attributes `gorm:"type:text" json:"attributes"`                              // 规格属性
	CreatedAt  time.Time  `json:"created_at"`                                               // 创建时间
	UpdatedAt  time.Time  `json:"updated_at"`                                               // 更新时间

	Inventory *Inventory `gorm:"foreignKey:VariationID" json:"inventory,omitempty"` // 当前库存
}

// TableName 指定表名
func (ProductVariation) TableName() string {
	return "product_variations"
}
