package repository

import (
	"github.com/cartella/internal/models"

	"gorm.io/gorm"
)

// CartEventRepository 购物车流水数据访问接口
type CartEventRepository interface {
	Create(event *models.CartEvent) error
	ListByCustomer(customerID string, limit int) ([]models.CartEvent, error)
}

// GormCartEventRepository GORM 实现
type GormCartEventRepository struct {
	db *gorm.DB
}

// NewCartEventRepository 创建购物车流水仓库
func NewCartEventRepository(db *gorm.DB) *GormCartEventRepository {
	return &GormCartEventRepository{db: db}
}

// Create 写入一条流水
func (r *GormCartEventRepository) Create(event *models.CartEvent) error {
	if event == nil {
		return nil
	}
	return r.db.Create(event).Error
}

// ListByCustomer 按客户查询最近流水
func (r *GormCartEventRepository) ListByCustomer(customerID string, limit int) ([]models.CartEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var events []models.CartEvent
	if err := r.db.Where("customer_id = ?", customerID).Order("id desc").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
