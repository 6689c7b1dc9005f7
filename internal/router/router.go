package router

import (
	"github.com/gin-gonic/gin"

	"github.com/lucianodboretti/agentic-factory-backend/internal/handler"
	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, log *logger.Logger) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware(log))
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Assistant 助手人设
		assistants := api.Group("/assistants")
		{
			assistants.GET("", h.Assistant.List)
			assistants.POST("", h.Assistant.Upsert)
			assistants.GET("/:id", h.Assistant.Get)
			assistants.PATCH("/:id", h.Assistant.Update)
		}

		// Thread 会话线程
		threads := api.Group("/threads")
		{
			threads.GET("", h.Thread.List)
			threads.POST("", h.Thread.Create)
			threads.GET("/:id", h.Thread.Get)
			threads.PATCH("/:id", h.Thread.UpdateTitle)
		}

		// Message 消息
		api.GET("/messages/:threadId", h.Message.ListByThread)

		// Chat 流式聊天
		api.POST("/chat", h.Chat.Chat)
	}

	return r
}
