package service

import "errors"

// 购物车服务哨兵错误
var (
	ErrUnauthorized       = errors.New("credential rejected")
	ErrLineNotFound       = errors.New("cart line not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog service unavailable")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInvalidInput       = errors.New("invalid input")
)
