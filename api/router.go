package api

import (
	"github.com/SlpAus/lost-and-found-backend/internal/item"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/stats"
	"github.com/SlpAus/lost-and-found-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 用户相关的路由组 /api/user
		userRoutes := api.Group("/user")
		{
			userRoutes.POST("/register", user.RegisterHandler)
			userRoutes.POST("/login", user.LoginHandler)
			userRoutes.POST("/logout", user.LogoutHandler)
			userRoutes.GET("/me", user.RequireUserMiddleware(), user.MeHandler)
			userRoutes.GET("/items", user.RequireUserMiddleware(), item.MineHandler)
		}

		// 启事相关的路由组 /api/items
		itemRoutes := api.Group("/items")
		{
			itemRoutes.GET("", item.SearchHandler)
			itemRoutes.GET("/:id", item.GetHandler)
			itemRoutes.POST("", user.RequireUserMiddleware(), item.CreateHandler)
			itemRoutes.POST("/:id/found", user.RequireUserMiddleware(), item.FoundHandler)
			itemRoutes.POST("/:id/close", user.RequireUserMiddleware(), item.CloseHandler)
			itemRoutes.DELETE("/:id", user.RequireUserMiddleware(), item.DeleteHandler)
		}

		// 统计相关的路由组 /api/stats
		statsRoutes := api.Group("/stats")
		{
			statsRoutes.GET("", stats.GetBasicStats)
			statsRoutes.GET("/daily", stats.GetDaily)
			statsRoutes.GET("/categories", stats.GetCategories)
			statsRoutes.GET("/cities", stats.GetCities)
		}
	}
}
