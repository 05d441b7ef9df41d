package consts

const (
	// TokenBlacklistKey 已注销 Token 的签名黑名单前缀
	TokenBlacklistKey = "auth:blacklist:"

	// RateLimitKey 接口限流计数器前缀
	RateLimitKey = "ratelimit:ip:"
)
