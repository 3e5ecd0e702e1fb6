package service

import (
	"context"
	"strings"

	"github.com/cartella/internal/constants"
	"github.com/cartella/internal/gateway"
	"github.com/cartella/internal/logger"
	"github.com/cartella/internal/models"
	"github.com/cartella/internal/queue"
	"github.com/cartella/internal/repository"

	"github.com/google/uuid"
)

// DisplayItem 购物车展示项（行数据与目录元数据的合并投影，仅用于响应）
type DisplayItem struct {
	LineID    string       `json:"line_id"`
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	UnitPrice models.Money `json:"unit_price"`
	Image     string       `json:"image"`
	Quantity  int          `json:"quantity"`
}

// CartService 购物车聚合服务：编排身份、目录与本地购物车存储
type CartService struct {
	lineRepo  repository.CartLineRepository
	eventRepo repository.CartEventRepository
	identity  gateway.IdentityResolver
	catalog   gateway.CatalogGateway
	queue     *queue.Client
}

// NewCartService 创建购物车服务
func NewCartService(
	lineRepo repository.CartLineRepository,
	eventRepo repository.CartEventRepository,
	identity gateway.IdentityResolver,
	catalog gateway.CatalogGateway,
	queueClient *queue.Client,
) *CartService {
	return &CartService{
		lineRepo:  lineRepo,
		eventRepo: eventRepo,
		identity:  identity,
		catalog:   catalog,
		queue:     queueClient,
	}
}

// ListItems 获取购物车展示列表。
// 空购物车直接返回空列表，不调用目录服务；
// 目录服务缺失元数据的行被静默省略，不阻塞其余行的展示。
func (s *CartService) ListItems(ctx context.Context, token string) ([]DisplayItem, error) {
	customerID, err := s.authorize(ctx, token)
	if err != nil {
		return nil, err
	}

	lines, err := s.lineRepo.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []DisplayItem{}, nil
	}

	lineByProduct := make(map[string]models.CartLine, len(lines))
	productIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, seen := lineByProduct[line.ProductID]; !seen {
			productIDs = append(productIDs, line.ProductID)
		}
		lineByProduct[line.ProductID] = line
	}

	summaries, err := s.catalog.FetchDisplayData(ctx, productIDs)
	if err != nil {
		logger.Warnw("catalog_display_data_unavailable", "customer_id", customerID, "error", err)
		return nil, ErrCatalogUnavailable
	}

	items := make([]DisplayItem, 0, len(summaries))
	for _, summary := range summaries {
		line, ok := lineByProduct[summary.ProductID]
		if !ok {
			// 目录返回了未请求的商品，丢弃
			continue
		}
		items = append(items, DisplayItem{
			LineID:    line.LineID,
			ProductID: line.ProductID,
			Name:      summary.Name,
			UnitPrice: summary.Price,
			Image:     summary.Image,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

// AddItem 加购：商品需通过目录服务存在性校验后才会新建行；
// 已有行直接数量 +1，不重复校验商品。
// 目录服务不可用与商品不存在对客户端统一表现为未找到。
func (s *CartService) AddItem(ctx context.Context, token, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ErrInvalidInput
	}

	customerID, err := s.authorize(ctx, token)
	if err != nil {
		return err
	}

	existing, err := s.lineRepo.FindByCustomerAndProduct(customerID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		exists, verifyErr := s.catalog.ProductExists(ctx, productID)
		if verifyErr != nil {
			logger.Warnw("catalog_verify_unavailable", "product_id", productID, "error", verifyErr)
			return ErrProductNotFound
		}
		if !exists {
			return ErrProductNotFound
		}
	}

	line := &models.CartLine{
		LineID:     uuid.NewString(),
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   1,
	}
	if err := s.lineRepo.AddOne(line); err != nil {
		return err
	}

	current, err := s.lineRepo.FindByCustomerAndProduct(customerID, productID)
	if err != nil || current == nil {
		logger.Warnw("cart_add_reload_failed", "customer_id", customerID, "product_id", productID, "error", err)
		s.recordActivity(customerID, productID, line.LineID, constants.CartActionAdd, line.Quantity)
		return nil
	}
	s.recordActivity(customerID, productID, current.LineID, constants.CartActionAdd, current.Quantity)
	return nil
}

// ReduceLine 减一件：数量为 1 时删除整行，数量不会落到 0
func (s *CartService) ReduceLine(ctx context.Context, token, lineID string) error {
	customerID, err := s.authorize(ctx, token)
	if err != nil {
		return err
	}

	line, err := s.lineRepo.FindByLineID(lineID)
	if err != nil {
		return err
	}
	// 非本人行按未找到处理，不泄露行是否存在
	if line == nil || line.CustomerID != customerID {
		return ErrLineNotFound
	}

	found, err := s.lineRepo.DecrementOrDelete(lineID)
	if err != nil {
		return err
	}
	if !found {
		return ErrLineNotFound
	}
	s.recordActivity(customerID, line.ProductID, lineID, constants.CartActionReduce, line.Quantity-1)
	return nil
}

// DeleteLine 无条件删除一行
func (s *CartService) DeleteLine(ctx context.Context, token, lineID string) error {
	customerID, err := s.authorize(ctx, token)
	if err != nil {
		return err
	}

	line, err := s.lineRepo.FindByLineID(lineID)
	if err != nil {
		return err
	}
	if line == nil || line.CustomerID != customerID {
		return ErrLineNotFound
	}

	found, err := s.lineRepo.DeleteByLineID(lineID)
	if err != nil {
		return err
	}
	if !found {
		return ErrLineNotFound
	}
	s.recordActivity(customerID, line.ProductID, lineID, constants.CartActionDelete, 0)
	return nil
}

// ClearCart 清空客户购物车；空购物车返回 ErrCartEmpty
func (s *CartService) ClearCart(ctx context.Context, token string) error {
	customerID, err := s.authorize(ctx, token)
	if err != nil {
		return err
	}

	count, err := s.lineRepo.CountByCustomer(customerID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCartEmpty
	}

	if _, err := s.lineRepo.ClearByCustomer(customerID); err != nil {
		return err
	}
	s.recordActivity(customerID, "", "", constants.CartActionClear, 0)
	return nil
}

// ListActivity 查询客户最近的购物车操作流水
func (s *CartService) ListActivity(ctx context.Context, token string, limit int) ([]models.CartEvent, error) {
	customerID, err := s.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.ListByCustomer(customerID, limit)
}

// authorize 校验凭证并解析客户ID；任何非成功结果一律视为未授权
func (s *CartService) authorize(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrUnauthorized
	}
	ok, err := s.identity.Authorize(ctx, token)
	if err != nil {
		logger.Warnw("identity_authorize_failed", "error", err)
		return "", ErrUnauthorized
	}
	if !ok {
		return "", ErrUnauthorized
	}
	customerID, err := s.identity.ResolveCustomerID(token)
	if err != nil || strings.TrimSpace(customerID) == "" {
		logger.Errorw("identity_resolve_customer_failed", "error", err)
		return "", ErrUnauthorized
	}
	return customerID, nil
}

// recordActivity 推送流水任务，失败只记日志，不影响购物车操作结果
func (s *CartService) recordActivity(customerID, productID, lineID, action string, quantity int) {
	if s.queue == nil {
		return
	}
	err := s.queue.EnqueueCartActivity(queue.CartActivityPayload{
		CustomerID: customerID,
		ProductID:  productID,
		LineID:     lineID,
		Action:     action,
		Quantity:   quantity,
	})
	if err != nil {
		logger.Warnw("cart_activity_enqueue_failed", "action", action, "customer_id", customerID, "error", err)
	}
}
