package middleware

import (
	"Quill/internal/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckRoles 检查当前用户角色是否在指定角色之内
func CheckRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")

		hasPermission := false
		for _, required := range requiredRoles {
			if role == required {
				hasPermission = true
				break
			}
		}

		if !hasPermission {
			response.Fail(c, http.StatusForbidden, "权限不足：无权访问该资源")
			c.Abort()
			return
		}

		c.Next()
	}
}
