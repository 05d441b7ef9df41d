package handler

import (
	"Quill/internal/pkg/policy"

	"github.com/gin-gonic/gin"
)

// callerFrom 从 gin Context 取出鉴权中间件注入的身份，匿名时 UserID 为 0
func callerFrom(c *gin.Context) policy.Caller {
	return policy.Caller{
		UserID: c.GetUint64("user_id"),
		Role:   c.GetString("role"),
	}
}
