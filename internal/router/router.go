package router

import (
	"github.com/gin-gonic/gin"
	"github.com/imyashkale/gatewayserver/internal/handlers"
	"github.com/imyashkale/gatewayserver/internal/middleware"
)

// Setup configures and returns the application router. When authEnabled is
// true, everything except the health check and the auth endpoints requires
// a bearer token.
func Setup(
	authEnabled bool,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	gatewayHandler *handlers.GatewayHandler,
	toolHandler *handlers.ToolHandler,
) *gin.Engine {

	// Create a new Gin router
	router := gin.Default()

	// Apply CORS middleware globally
	router.Use(middleware.CORS())

	// Health check and auth bootstrap stay open; tokens are obtained here
	router.GET("/health", healthHandler.Check)

	auth := router.Group("/auth")
	{
		auth.POST("/setup", authHandler.Setup)
		auth.POST("/token", authHandler.Token)
	}

	api := router.Group("/")
	if authEnabled {
		api.Use(middleware.Authentication())
	}

	// Gateway routes
	gateways := api.Group("/gateways")
	{
		gateways.POST("", gatewayHandler.Create)
		gateways.POST("/no-auth", gatewayHandler.CreateNoAuth)
		gateways.GET("", gatewayHandler.List)
		gateways.GET("/:gateway_id", gatewayHandler.Get)
		gateways.PUT("/:gateway_id", gatewayHandler.Update)
		gateways.DELETE("/:gateway_id", gatewayHandler.Delete)

		// Per-gateway tool routes
		gateways.GET("/:gateway_id/tools", toolHandler.List)
		gateways.GET("/:gateway_id/tools/:target_id", toolHandler.Get)
		gateways.PUT("/:gateway_id/tools/:target_id", toolHandler.Update)
		gateways.DELETE("/:gateway_id/tools/:target_id", toolHandler.Delete)
	}

	// Tool registration routes
	tools := api.Group("/tools")
	{
		tools.POST("", toolHandler.CreateFromFile)
		tools.POST("/from-url", toolHandler.CreateFromURL)
		tools.POST("/from-api-info", toolHandler.CreateFromAPIInfo)
		tools.POST("/from-spec", toolHandler.CreateFromSpec)
	}

	return router
}
