package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cartella/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const identityValidatePath = "/api/rest/v1/validate/user/"

// identityClaims 身份令牌声明：客户ID在 id 声明里，缺省回退到 sub
type identityClaims struct {
	CustomerID string `json:"id"`
	jwt.RegisteredClaims
}

// RemoteIdentityResolver 调用身份服务校验凭证。
// 客户ID直接从令牌声明中提取，不做二次签名校验（身份服务已确认有效）。
type RemoteIdentityResolver struct {
	client *resty.Client
}

// NewRemoteIdentityResolver 创建远程身份解析器
func NewRemoteIdentityResolver(cfg config.IdentityConfig) *RemoteIdentityResolver {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &RemoteIdentityResolver{client: client}
}

// Authorize 调用身份服务校验凭证，2xx 即视为已授权
func (r *RemoteIdentityResolver) Authorize(ctx context.Context, token string) (bool, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(identityValidatePath)
	if err != nil {
		return false, fmt.Errorf("identity service request failed: %w", err)
	}
	return resp.IsSuccess(), nil
}

// ResolveCustomerID 从令牌声明中提取客户ID
func (r *RemoteIdentityResolver) ResolveCustomerID(token string) (string, error) {
	return customerIDFromToken(token)
}

// LocalIdentityResolver 本地 HS256 校验（无需身份服务的部署形态）
type LocalIdentityResolver struct {
	secret []byte
}

// NewLocalIdentityResolver 创建本地身份解析器
func NewLocalIdentityResolver(secret string) *LocalIdentityResolver {
	return &LocalIdentityResolver{secret: []byte(secret)}
}

// Authorize 校验 HS256 签名与有效期
func (r *LocalIdentityResolver) Authorize(_ context.Context, token string) (bool, error) {
	if len(r.secret) == 0 {
		return false, errors.New("identity jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &identityClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return r.secret, nil
	})
	if err != nil || !parsed.Valid {
		return false, nil
	}
	return true, nil
}

// ResolveCustomerID 从令牌声明中提取客户ID
func (r *LocalIdentityResolver) ResolveCustomerID(token string) (string, error) {
	return customerIDFromToken(token)
}

func customerIDFromToken(token string) (string, error) {
	claims := &identityClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token failed: %w", err)
	}
	id := strings.TrimSpace(claims.CustomerID)
	if id == "" {
		id = strings.TrimSpace(claims.Subject)
	}
	if id == "" {
		return "", errors.New("token missing customer id claim")
	}
	return id, nil
}
