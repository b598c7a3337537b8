package routes

import (
	"github.com/gin-gonic/gin"

	"luminara/internal/interfaces/http/handlers"
	"luminara/internal/interfaces/http/middleware"
)

// ToolRouteConfig holds dependencies for tool access routes.
type ToolRouteConfig struct {
	ToolAccessHandler *handlers.ToolAccessHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// SetupToolRoutes configures tool access and usage routes.
func SetupToolRoutes(engine *gin.Engine, cfg *ToolRouteConfig) {
	tools := engine.Group("/api/tools")
	tools.Use(cfg.AuthMiddleware.RequireAuth())
	{
		tools.POST("/access", cfg.ToolAccessHandler.Access)
		tools.POST("/check", cfg.ToolAccessHandler.Check)
		tools.GET("", cfg.ToolAccessHandler.ListTools)
	}

	usage := engine.Group("/api/usage")
	usage.Use(cfg.AuthMiddleware.RequireAuth())
	{
		usage.GET("/stats", cfg.ToolAccessHandler.GetUsageStats)
	}
}
