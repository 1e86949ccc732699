package models

import "time"

// Merchant 商户门店表（由 POS 同步写入，搜索侧只读）
type Merchant struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                     // 主键
	ExternalID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"external_id"` // POS 平台门店ID
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`                   // 展示名称
	Street     string    `gorm:"type:varchar(255)" json:"street"`                          // 街道地址
	City       string    `gorm:"type:varchar(128)" json:"city"`                            // 城市
	Region     string    `gorm:"type:varchar(128)" json:"region"`                          // 州/省
	Postcode   string    `gorm:"type:varchar(32)" json:"postcode"`                         // 邮编
	Country    string    `gorm:"type:varchar(64)" json:"country"`                          // 国家
	Latitude   float64   `gorm:"not null" json:"latitude"`                                 // 纬度
	Longitude  float64   `gorm:"not null" json:"longitude"`                                // 经度
	IsActive   bool      `gorm:"not null;index" json:"is_active"`                          // 是否营业
	CreatedAt  time.Time `json:"created_at"`                                               // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                               // 更新时间

	Products []Product `gorm:"foreignKey:MerchantID" json:"products,omitempty"`
}

// TableName 指定表名
func (Merchant) TableName() string {
	return "merchants"
}
