package middleware

import (
	"Quill/internal/api/config"
	"Quill/internal/pkg/consts"
	"Quill/internal/pkg/redis"
	"Quill/internal/pkg/response"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware 按客户端 IP 做固定窗口限流。
// Redis 故障时放行，限流不能成为服务可用性的单点。
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second

	return func(c *gin.Context) {
		if !cfg.Enable {
			c.Next()
			return
		}

		key := consts.RateLimitKey + c.ClientIP()
		count, err := redis.IncrWithWindow(c.Request.Context(), key, window)
		if err != nil {
			log.WarnContext(c.Request.Context(), "rate limit counter unavailable", "err", err)
			c.Next()
			return
		}

		if count > int64(cfg.Requests) {
			response.Fail(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
