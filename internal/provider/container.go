package provider

import (
	"strings"

	"github.com/cartella/internal/cache"
	"github.com/cartella/internal/config"
	"github.com/cartella/internal/constants"
	"github.com/cartella/internal/gateway"
	"github.com/cartella/internal/logger"
	"github.com/cartella/internal/models"
	"github.com/cartella/internal/queue"
	"github.com/cartella/internal/repository"
	"github.com/cartella/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CartLineRepo  repository.CartLineRepository
	CartEventRepo repository.CartEventRepository

	// 外部服务适配器
	IdentityResolver gateway.IdentityResolver
	CatalogGateway   gateway.CatalogGateway

	// Services
	CartService *service.CartService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initGateways()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CartLineRepo = repository.NewCartLineRepository(db)
	c.CartEventRepo = repository.NewCartEventRepository(db)
}

func (c *Container) initGateways() {
	mode := strings.ToLower(strings.TrimSpace(c.Config.Identity.Mode))
	switch mode {
	case constants.IdentityModeLocal:
		c.IdentityResolver = gateway.NewLocalIdentityResolver(c.Config.Identity.JWTSecret)
	default:
		c.IdentityResolver = gateway.NewRemoteIdentityResolver(c.Config.Identity)
	}
	c.CatalogGateway = gateway.NewHTTPCatalogGateway(c.Config.Catalog)
}

func (c *Container) initServices() {
	c.CartService = service.NewCartService(
		c.CartLineRepo,
		c.CartEventRepo,
		c.IdentityResolver,
		c.CatalogGateway,
		c.QueueClient,
	)
}
