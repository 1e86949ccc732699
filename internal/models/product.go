package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                     // 主键
	ExternalID  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"external_id"` // POS 平台商品ID
	MerchantID  uint      `gorm:"not null;index" json:"merchant_id"`                        // 所属商户
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`             // 商品名称
	Description string    `gorm:"type:text" json:"description"`                             // 描述（可空）
	Category    string    `gorm:"type:varchar(128);index" json:"category"`                  // 分类标签（可空）
	ImageURL    string    `gorm:"type:varchar(500)" json:"image_url"`                       // 图片地址（可空）
	BasePrice   *Money    `gorm:"type:decimal(20,2)" json:"base_price"`                     // 基础价格（可空）
	IsActive    bool      `gorm:"not null;index" json:"is_active"`                          // 是否上架
	SearchText  string    `gorm:"type:text" json:"-"`                                       // 名称/描述/分类的小写拼接，用于文本匹配
	CategoryKey string    `gorm:"type:varchar(128);index" json:"-"`                         // 小写分类，用于分类过滤
	CreatedAt   time.Time `json:"created_at"`                                               // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                               // 更新时间

	// 关联
	Merchant   Merchant           `gorm:"foreignKey:MerchantID" json:"merchant"`
	Variations []ProductVariation `gorm:"foreignKey:ProductID" json:"variations,omitempty"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// searchTextSeparator 拼接字段的分隔符，避免跨字段误匹配
const searchTextSeparator = "\x1f"

// BeforeSave 写入前按 Unicode 规则生成小写匹配列（sqlite 的 LOWER 仅处理 ASCII）
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.RefreshSearchKeys()
	return nil
}

// RefreshSearchKeys 根据名称、描述、分类重新计算匹配列
func (p *Product) RefreshSearchKeys() {
	if p == nil {
		return
	}
	p.SearchText = strings.ToLower(strings.Join([]string{p.Name, p.Description, p.Category}, searchTextSeparator))
	p.CategoryKey = strings.ToLower(p.Category)
}

// TotalStock 汇总所有规格的当前库存，缺失库存记录按 0 计
func (p *Product) TotalStock() int {
	if p == nil {
		return 0
	}
	total := 0
	for i := range p.Variations {
		if inv := p.Variations[i].Inventory; inv != nil && inv.Quantity > 0 {
			total += inv.Quantity
		}
	}
	return total
}
