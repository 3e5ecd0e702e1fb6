package handlers

import (
	"errors"
	"strconv"

	"github.com/cartella/internal/http/response"
	"github.com/cartella/internal/service"

	"github.com/gin-gonic/gin"
)

// AddToCartRequest 加购请求
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// GetCartItems 获取购物车展示列表
func (h *Handler) GetCartItems(c *gin.Context) {
	items, err := h.CartService.ListItems(c.Request.Context(), accessToken(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			response.Unauthorized(c, "credential rejected")
		case errors.Is(err, service.ErrCatalogUnavailable):
			response.ServiceUnavailable(c, "product catalog is currently unavailable")
		default:
			respondError(c, response.CodeInternal, "list cart items failed", err)
		}
		return
	}
	response.Success(c, gin.H{"items": items})
}

// AddCartItem 加购一件商品
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "product_id is required", err)
		return
	}
	if err := h.CartService.AddItem(c.Request.Context(), accessToken(c), req.ProductID); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			response.Unauthorized(c, "credential rejected")
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "product_id is required")
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFound(c, "product not found")
		default:
			respondError(c, response.CodeInternal, "add cart item failed", err)
		}
		return
	}
	response.Success(c, nil)
}

// ReduceCartLine 购物车行减一件
func (h *Handler) ReduceCartLine(c *gin.Context) {
	lineID := c.Param("line_id")
	if err := h.CartService.ReduceLine(c.Request.Context(), accessToken(c), lineID); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			response.Unauthorized(c, "credential rejected")
		case errors.Is(err, service.ErrLineNotFound):
			response.NotFound(c, "cart line not found")
		default:
			respondError(c, response.CodeInternal, "reduce cart line failed", err)
		}
		return
	}
	response.Success(c, nil)
}

// DeleteCartLine 删除购物车行
func (h *Handler) DeleteCartLine(c *gin.Context) {
	lineID := c.Param("line_id")
	if err := h.CartService.DeleteLine(c.Request.Context(), accessToken(c), lineID); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			response.Unauthorized(c, "credential rejected")
		case errors.Is(err, service.ErrLineNotFound):
			response.NotFound(c, "cart line not found")
		default:
			respondError(c, response.CodeInternal, "delete cart line failed", err)
		}
		return
	}
	response.Success(c, nil)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.CartService.ClearCart(c.Request.Context(), accessToken(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			response.Unauthorized(c, "credential rejected")
		case errors.Is(err, service.ErrCartEmpty):
			response.NotFound(c, "cart is empty")
		default:
			respondError(c, response.CodeInternal, "clear cart failed", err)
		}
		return
	}
	response.Success(c, nil)
}

// GetCartActivity 查询最近的购物车操作流水
func (h *Handler) GetCartActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.CartService.ListActivity(c.Request.Context(), accessToken(c), limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			response.Unauthorized(c, "credential rejected")
		default:
			respondError(c, response.CodeInternal, "list cart activity failed", err)
		}
		return
	}
	response.Success(c, gin.H{"events": events})
}
