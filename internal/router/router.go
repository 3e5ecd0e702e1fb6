package router

import (
	"fmt"

	"github.com/cartella/internal/cache"
	"github.com/cartella/internal/config"
	"github.com/cartella/internal/http/handlers"
	"github.com/cartella/internal/logger"
	"github.com/cartella/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)
	mutationRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:cart_mutation", cache.Prefix()),
		WindowSeconds: cfg.Security.MutationRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.MutationRateLimit.MaxRequests,
		Message:       "too many cart operations, slow down",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 购物车 API：全部需要 Bearer 凭证，实际鉴权由聚合服务调用身份服务完成
	cart := r.Group("/api/rest/v1/cart")
	cart.Use(BearerTokenMiddleware())
	{
		cart.GET("/items", handler.GetCartItems)
		cart.POST("/add", RateLimitMiddleware(cache.Client(), mutationRule, KeyByBearerToken), handler.AddCartItem)
		cart.DELETE("/reduce/:line_id", handler.ReduceCartLine)
		cart.DELETE("/delete/:line_id", handler.DeleteCartLine)
		cart.DELETE("/clearAll", handler.ClearCart)
		cart.GET("/activity", handler.GetCartActivity)
	}

	return r
}
