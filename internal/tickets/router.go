package tickets

import (
	"musetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures operator ticket routes
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public ticket catalog consumed by the booking dialogue frontend
	rg.GET("/catalog/tickets", controller.Catalog)

	admin := rg.Group("/admin/tickets")
	admin.Use(middleware.JWTAuth())
	{
		// Staff can read, only admins can trigger a resend
		admin.GET("", middleware.RequireOperator(), controller.List)
		admin.GET("/:orderId", middleware.RequireOperator(), controller.Get)
		admin.POST("/:orderId/resend", middleware.RequireAdmin(), controller.Resend)
	}
}
