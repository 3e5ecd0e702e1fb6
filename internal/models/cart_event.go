package models

import (
	"time"
)

// CartEvent 购物车操作流水（由异步 worker 落库）
type CartEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`                              // 主键
	CustomerID string    `gorm:"type:varchar(64);not null;index" json:"customer_id"` // 客户ID
	ProductID  string    `gorm:"type:varchar(64)" json:"product_id,omitempty"`      // 商品ID（clear 操作为空）
	LineID     string    `gorm:"type:varchar(36)" json:"line_id,omitempty"`         // 行ID（clear 操作为空）
	Action     string    `gorm:"type:varchar(20);not null" json:"action"`           // add / reduce / delete / clear
	Quantity   int       `json:"quantity"`                                          // 操作后的数量（delete/clear 为 0）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                           // 创建时间
}

// TableName 指定表名
func (CartEvent) TableName() string {
	return "cart_events"
}
