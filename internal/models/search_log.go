package models

import "time"

// SearchLog 搜索日志
// 说明：每次执行搜索写入一条，仅供分析使用，搜索链路本身不读取。
type SearchLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	Query     string    `gorm:"type:varchar(255);not null" json:"query"`  // 查询词
	Latitude  *float64  `json:"latitude"`                                 // 解析后的纬度
	Longitude *float64  `json:"longitude"`                                // 解析后的经度
	Radius    *float64  `json:"radius"`                                   // 搜索半径（公里）
	Results   int       `gorm:"not null;default:0" json:"results"`        // 返回结果数
	RequestID string    `gorm:"type:varchar(64);index" json:"request_id"` // 请求追踪ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`                  // 记录时间
}

// TableName 指定表名
func (SearchLog) TableName() string {
	return "search_logs"
}
