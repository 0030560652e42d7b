package auth

import (
	"musetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers operator authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", controller.Register)
		auth.POST("/login", controller.Login)
		auth.POST("/refresh", controller.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.JWTAuth())
		{
			protected.PUT("/change-password", controller.ChangePassword)
			protected.GET("/me", controller.GetMe)
		}
	}
}
