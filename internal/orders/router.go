package orders

import (
	"musetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes configures order-creation and operator payment routes
func SetupOrderRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public endpoint consumed by the booking dialogue / payment widget
	payment := rg.Group("/payment")
	{
		payment.POST("/create-order", controller.CreateOrder) // POST /api/v1/payment/create-order
	}

	// Operator endpoints
	admin := rg.Group("/admin/payments")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListIntents)          // GET /api/v1/admin/payments
		admin.GET("/:orderId", controller.GetIntent)   // GET /api/v1/admin/payments/:orderId
	}
}
