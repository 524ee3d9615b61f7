package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/parentshield/notifier/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Event-type catalog (public read access)
		v1.GET("/webhooks/events", handler.ListEventTypes)

		// Webhook subscription management (account token required)
		webhooks := v1.Group("/webhooks", middleware.Auth(authCfg))
		{
			webhooks.POST("", handler.CreateWebhook)
			webhooks.GET("", handler.ListWebhooks)
			webhooks.GET("/:id", handler.GetWebhook)
			webhooks.PUT("/:id", handler.UpdateWebhook)
			webhooks.DELETE("/:id", handler.DeleteWebhook)
			webhooks.POST("/:id/test", handler.TestWebhook)
			webhooks.GET("/:id/deliveries", handler.ListDeliveries)
		}

		// Alert ingestion (account token or device-service API key)
		v1.POST("/alerts", middleware.Auth(authCfg), handler.CreateAlert)
	}
}
