package gateway

import (
	"context"

	"github.com/cartella/internal/models"
)

// IdentityResolver 身份服务消费契约。
// Authorize 返回 (false, *) 或错误时一律视为未授权；
// ResolveCustomerID 只应在 Authorize 成功后调用。
type IdentityResolver interface {
	Authorize(ctx context.Context, token string) (bool, error)
	ResolveCustomerID(token string) (string, error)
}

// CatalogGateway 商品目录服务消费契约。
// ProductExists 三种结果：(true, nil) 存在，(false, nil) 不存在，(false, err) 服务不可用。
// FetchDisplayData 返回 err 表示目录服务不可用；返回列表不保证顺序，也不保证覆盖所有请求的商品。
type CatalogGateway interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
	FetchDisplayData(ctx context.Context, productIDs []string) ([]ProductSummary, error)
}

// ProductSummary 目录服务返回的商品展示数据
type ProductSummary struct {
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Image     string       `json:"image"`
}
