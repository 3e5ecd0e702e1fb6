package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cartella/internal/config"

	"github.com/go-resty/resty/v2"
)

const (
	catalogVerifyPath    = "/api/rest/v1/verify/"
	catalogCartItemsPath = "/api/rest/v1/cartitems"
)

// HTTPCatalogGateway 商品目录服务 HTTP 适配器
type HTTPCatalogGateway struct {
	client *resty.Client
}

// NewHTTPCatalogGateway 创建目录服务适配器
func NewHTTPCatalogGateway(cfg config.CatalogConfig) *HTTPCatalogGateway {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPCatalogGateway{client: client}
}

// ProductExists 校验商品是否存在：2xx 存在，404 不存在，其余视为服务不可用
func (g *HTTPCatalogGateway) ProductExists(ctx context.Context, productID string) (bool, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		Get(catalogVerifyPath + productID)
	if err != nil {
		return false, fmt.Errorf("catalog verify request failed: %w", err)
	}
	if resp.IsSuccess() {
		return true, nil
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("catalog verify unexpected status %d", resp.StatusCode())
}

// FetchDisplayData 批量获取商品展示数据；返回错误表示目录服务不可用
func (g *HTTPCatalogGateway) FetchDisplayData(ctx context.Context, productIDs []string) ([]ProductSummary, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"array": productIDs}).
		Post(catalogCartItemsPath)
	if err != nil {
		return nil, fmt.Errorf("catalog display data request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("catalog display data unexpected status %d", resp.StatusCode())
	}
	var summaries []ProductSummary
	if err := json.Unmarshal(resp.Body(), &summaries); err != nil {
		return nil, fmt.Errorf("decode catalog display data failed: %w", err)
	}
	return summaries, nil
}
