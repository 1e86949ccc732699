package repository

import (
	"context"
	"errors"

	"github.com/nearshelf/internal/models"

	"gorm.io/gorm"
)

// SearchLogRepository 搜索日志写入接口
type SearchLogRepository interface {
	Create(ctx context.Context, log *models.SearchLog) error
	Count(ctx context.Context) (int64, error)
}

// GormSearchLogRepository GORM 实现
type GormSearchLogRepository struct {
	db *gorm.DB
}

// NewSearchLogRepository 创建搜索日志仓库
func NewSearchLogRepository(db *gorm.DB) *GormSearchLogRepository {
	return &GormSearchLogRepository{db: db}
}

// Create 写入搜索日志
func (r *GormSearchLogRepository) Create(ctx context.Context, log *models.SearchLog) error {
	if log == nil {
		return errors.New("search log is nil")
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// Count 统计日志条数
func (r *GormSearchLogRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.SearchLog{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
