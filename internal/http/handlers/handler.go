package handlers

import (
	"github.com/cartella/internal/http/response"
	"github.com/cartella/internal/logger"
	"github.com/cartella/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 购物车 API 处理器入口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// requestLog 提供携带 request_id 的日志实例
func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// respondError 返回错误响应，并在有原始错误时记录日志
func respondError(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}

// accessToken 从上下文读取 Bearer 凭证（由路由中间件剥离前缀后写入）
func accessToken(c *gin.Context) string {
	value, ok := c.Get("access_token")
	if !ok {
		return ""
	}
	if token, ok := value.(string); ok {
		return token
	}
	return ""
}
