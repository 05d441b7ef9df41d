package api

import (
	"Quill/internal/api/config"
	"Quill/internal/api/middleware"
	"Quill/internal/model"
	"Quill/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS & 限流
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware(config.Cfg.RateLimit))
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.AuthHandler.Register)
			authGroup.POST("/login", group.AuthHandler.Login)

			loggedGroup := authGroup.Group("")
			loggedGroup.Use(middleware.AuthMiddleware())
			{
				loggedGroup.POST("/logout", group.AuthHandler.Logout)
				loggedGroup.GET("/me", group.AuthHandler.Me)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.PostHandler.List)
				authOptGroup.GET("/:id", group.PostHandler.Get)
				authOptGroup.GET("/:id/related", group.PostHandler.Related)
				authOptGroup.GET("/:id/comments", group.CommentHandler.ListForPost)
			}

			loggedGroup := postGroup.Group("")
			loggedGroup.Use(middleware.AuthMiddleware())
			{
				loggedGroup.PUT("/:id", group.PostHandler.Update)
				loggedGroup.DELETE("/:id", group.PostHandler.Delete)
				loggedGroup.PUT("/:id/like", group.PostHandler.ToggleLike)
				loggedGroup.POST("/:id/comments", group.CommentHandler.CreateForPost)
			}

			// 需要登录 & editor/admin 角色
			editorGroup := loggedGroup.Group("")
			editorGroup.Use(middleware.CheckRoles(model.RoleEditor, model.RoleAdmin))
			{
				editorGroup.POST("", group.PostHandler.Create)
				editorGroup.GET("/stats", group.StatsHandler.PostStats)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			authOptGroup := commentGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:id", group.CommentHandler.Get)
			}

			loggedGroup := commentGroup.Group("")
			loggedGroup.Use(middleware.AuthMiddleware())
			{
				loggedGroup.PUT("/:id", group.CommentHandler.Update)
				loggedGroup.DELETE("/:id", group.CommentHandler.Delete)
				loggedGroup.PUT("/:id/like", group.CommentHandler.ToggleLike)
			}

			editorGroup := loggedGroup.Group("")
			editorGroup.Use(middleware.CheckRoles(model.RoleEditor, model.RoleAdmin))
			{
				editorGroup.GET("", group.CommentHandler.List)
				editorGroup.PUT("/:id/moderate", group.CommentHandler.Moderate)
			}
		}

		categoryGroup := apiGroup.Group("/categories")
		{
			categoryGroup.GET("", group.CategoryHandler.List)
			categoryGroup.GET("/:id", group.CategoryHandler.Get)

			loggedGroup := categoryGroup.Group("")
			loggedGroup.Use(middleware.AuthMiddleware())

			editorGroup := loggedGroup.Group("")
			editorGroup.Use(middleware.CheckRoles(model.RoleEditor, model.RoleAdmin))
			{
				editorGroup.POST("", group.CategoryHandler.Create)
				editorGroup.PUT("/:id", group.CategoryHandler.Update)
				editorGroup.GET("/stats", group.StatsHandler.CategoryStats)
			}

			adminGroup := loggedGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(model.RoleAdmin))
			{
				adminGroup.DELETE("/:id", group.CategoryHandler.Delete)
			}
		}

		tagGroup := apiGroup.Group("/tags")
		{
			tagGroup.GET("", group.TagHandler.List)
			tagGroup.GET("/popular", group.TagHandler.Popular)
			tagGroup.GET("/:id", group.TagHandler.Get)

			loggedGroup := tagGroup.Group("")
			loggedGroup.Use(middleware.AuthMiddleware())

			editorGroup := loggedGroup.Group("")
			editorGroup.Use(middleware.CheckRoles(model.RoleEditor, model.RoleAdmin))
			{
				editorGroup.POST("", group.TagHandler.Create)
				editorGroup.PUT("/:id", group.TagHandler.Update)
				editorGroup.GET("/stats", group.StatsHandler.TagStats)
			}

			adminGroup := loggedGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(model.RoleAdmin))
			{
				adminGroup.DELETE("/:id", group.TagHandler.Delete)
			}
		}

		// 用户管理，仅 admin
		userGroup := apiGroup.Group("/users")
		userGroup.Use(middleware.AuthMiddleware())
		userGroup.Use(middleware.CheckRoles(model.RoleAdmin))
		{
			userGroup.GET("", group.UserHandler.List)
			userGroup.POST("", group.UserHandler.Create)
			userGroup.GET("/:id", group.UserHandler.Get)
			userGroup.PUT("/:id", group.UserHandler.Update)
			userGroup.DELETE("/:id", group.UserHandler.Delete)
		}
	}

	return r
}
