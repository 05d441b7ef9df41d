package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret         = "quill-dev-secret"
	jwtIssuer         = "Quill"
	jwtExpirationTime = time.Hour * 24
)

// Init 注入 Token 签发配置，需在签发/校验前调用
func Init(secret, issuer string, expireHours int) {
	if secret != "" {
		jwtSecret = secret
	}
	if issuer != "" {
		jwtIssuer = issuer
	}
	if expireHours > 0 {
		jwtExpirationTime = time.Duration(expireHours) * time.Hour
	}
}

// UserClaims 定义了我们 Token 中需要包含的业务信息
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
