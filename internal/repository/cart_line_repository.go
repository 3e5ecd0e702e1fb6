package repository

import (
	"errors"
	"time"

	"github.com/cartella/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartLineRepository 购物车行数据访问接口
type CartLineRepository interface {
	ListByCustomer(customerID string) ([]models.CartLine, error)
	FindByCustomerAndProduct(customerID, productID string) (*models.CartLine, error)
	FindByLineID(lineID string) (*models.CartLine, error)
	// AddOne 单条条件写：不存在则以数量 1 插入，存在则数量 +1。
	// 并发加购下保证同一 (customer, product) 只有一行。
	AddOne(line *models.CartLine) error
	// DecrementOrDelete 数量 >1 则减一，等于 1 则删除整行，返回是否命中。
	DecrementOrDelete(lineID string) (bool, error)
	DeleteByLineID(lineID string) (bool, error)
	ClearByCustomer(customerID string) (int64, error)
	CountByCustomer(customerID string) (int64, error)
	WithTx(tx *gorm.DB) *GormCartLineRepository
}

// GormCartLineRepository GORM 实现
type GormCartLineRepository struct {
	db *gorm.DB
}

// NewCartLineRepository 创建购物车行仓库
func NewCartLineRepository(db *gorm.DB) *GormCartLineRepository {
	return &GormCartLineRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartLineRepository) WithTx(tx *gorm.DB) *GormCartLineRepository {
	if tx == nil {
		return r
	}
	return &GormCartLineRepository{db: tx}
}

// ListByCustomer 获取客户的全部购物车行
func (r *GormCartLineRepository) ListByCustomer(customerID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Where("customer_id = ?", customerID).Order("updated_at desc").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByCustomerAndProduct 按 (客户, 商品) 查找行，不存在返回 nil
func (r *GormCartLineRepository) FindByCustomerAndProduct(customerID, productID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Where("customer_id = ? AND product_id = ?", customerID, productID).First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindByLineID 按行ID查找，不存在返回 nil
func (r *GormCartLineRepository) FindByLineID(lineID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Where("line_id = ?", lineID).First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// AddOne 原子加购：INSERT ... ON CONFLICT (customer_id, product_id) DO UPDATE quantity+1
func (r *GormCartLineRepository) AddOne(line *models.CartLine) error {
	if line == nil {
		return nil
	}
	now := time.Now()
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	line.CreatedAt = now
	line.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + 1"),
			"updated_at": now,
		}),
	}).Create(line).Error
}

// DecrementOrDelete 减一或删除：两条条件写放在同一事务内，数量不会落到 0
func (r *GormCartLineRepository) DecrementOrDelete(lineID string) (bool, error) {
	found := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		dec := tx.Model(&models.CartLine{}).
			Where("line_id = ? AND quantity > 1", lineID).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - 1"),
				"updated_at": time.Now(),
			})
		if dec.Error != nil {
			return dec.Error
		}
		if dec.RowsAffected > 0 {
			found = true
			return nil
		}
		del := tx.Where("line_id = ?", lineID).Delete(&models.CartLine{})
		if del.Error != nil {
			return del.Error
		}
		found = del.RowsAffected > 0
		return nil
	})
	return found, err
}

// DeleteByLineID 无条件删除行，返回是否命中
func (r *GormCartLineRepository) DeleteByLineID(lineID string) (bool, error) {
	result := r.db.Where("line_id = ?", lineID).Delete(&models.CartLine{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearByCustomer 清空客户购物车，返回删除行数
func (r *GormCartLineRepository) ClearByCustomer(customerID string) (int64, error) {
	result := r.db.Where("customer_id = ?", customerID).Delete(&models.CartLine{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByCustomer 统计客户购物车行数
func (r *GormCartLineRepository) CountByCustomer(customerID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.CartLine{}).Where("customer_id = ?", customerID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
