package routes

import (
	"github.com/gin-gonic/gin"

	"luminara/internal/interfaces/http/handlers"
	"luminara/internal/interfaces/http/middleware"
)

// ChatRouteConfig holds dependencies for conversation routes.
type ChatRouteConfig struct {
	ChatHandler        *handlers.ChatHandler
	ExportHandler      *handlers.ExportHandler
	AuthMiddleware     *middleware.AuthMiddleware
	ToolGateMiddleware *middleware.ToolGateMiddleware
}

// SetupChatRoutes configures conversation and export routes. Message writes
// go through the tool gate so denied invocations never reach the handler.
func SetupChatRoutes(engine *gin.Engine, cfg *ChatRouteConfig) {
	conversations := engine.Group("/api/conversations")
	conversations.Use(cfg.AuthMiddleware.RequireAuth())
	{
		conversations.POST("", cfg.ChatHandler.StartConversation)
		conversations.GET("", cfg.ChatHandler.ListConversations)
		conversations.GET("/:sid/messages", cfg.ChatHandler.ListMessages)
		conversations.POST("/:sid/messages",
			cfg.ToolGateMiddleware.RequireToolAccess(), cfg.ChatHandler.AppendMessage)
		conversations.GET("/:sid/export", cfg.ExportHandler.Export)
	}
}
