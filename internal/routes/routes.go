package routes

import (
	"outbound_backend/internal/auth"
	"outbound_backend/internal/handlers"
	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/middleware"
	"outbound_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers every HTTP and WebSocket route.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	tokens *auth.TokenManager,
	resolver *identity.Resolver,
) {
	// Public: health, viewer links, Stripe webhook
	appHandlers.PublicHandler.RegisterRoutes(ginRouter)

	api := ginRouter.Group("/api")
	appHandlers.AuthHandler.RegisterRoutes(api)

	// Everything below runs with the caller resolved to the account they act on.
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens), middleware.IdentityMiddleware(resolver))
	{
		appHandlers.UserHandler.RegisterRoutes(protected)
		appHandlers.TeamHandler.RegisterRoutes(protected)
		appHandlers.ItemHandler.RegisterRoutes(protected)
		appHandlers.UploadHandler.RegisterRoutes(protected)
		appHandlers.CampaignHandler.RegisterRoutes(protected)
		appHandlers.OrganizationHandler.RegisterRoutes(protected)
		appHandlers.AnalyticsHandler.RegisterRoutes(protected)
		appHandlers.AccountHandler.RegisterRoutes(protected)
		appHandlers.ChatHandler.RegisterRoutes(protected)
	}

	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware(tokens), middleware.IdentityMiddleware(resolver))
	{
		wsGroup.GET("/chat", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws/chat registered")
}
