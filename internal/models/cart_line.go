package models

import (
	"time"
)

// CartLine 购物车行：同一 (customer_id, product_id) 至多一行。
// LineID 在创建时生成，作为对外删除/减量操作的句柄。
// 行数量降为 0 时必须删除，绝不落库为 0，因此不使用软删除。
type CartLine struct {
	LineID     string    `gorm:"type:varchar(36);primarykey" json:"line_id"`                                 // 行ID（UUID）
	CustomerID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_customer_product;index" json:"customer_id"` // 客户ID（来自身份服务）
	ProductID  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_customer_product" json:"product_id"`        // 商品ID（来自目录服务）
	Quantity   int       `gorm:"not null" json:"quantity"`                                                   // 数量（>= 1）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                                    // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (CartLine) TableName() string {
	return "cart_lines"
}
