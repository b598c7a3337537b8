package routes

import (
	"github.com/gin-gonic/gin"

	"luminara/internal/interfaces/http/handlers"
)

// BillingRouteConfig holds dependencies for billing webhook routes.
type BillingRouteConfig struct {
	BillingWebhookHandler *handlers.BillingWebhookHandler
}

// SetupBillingRoutes configures billing provider webhook routes. These are
// authenticated by a shared secret header, not by user tokens.
func SetupBillingRoutes(engine *gin.Engine, cfg *BillingRouteConfig) {
	webhooks := engine.Group("/api/webhooks")
	{
		webhooks.POST("/billing/subscription", cfg.BillingWebhookHandler.HandleSubscriptionEvent)
	}
}
