package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(gin.Logger())

	// Health check
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.GET("/signin", handler.SignIn)
			authRoutes.GET("/callback", handler.Callback)
			authRoutes.POST("/signout", handler.SignOut)
			authRoutes.GET("/session", handler.SessionInfo)
		}

		api.GET("/projects", handler.GetProjects)
		api.POST("/repos/create", handler.CreateRepository)
	}

	return router
}
