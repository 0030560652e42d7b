package settlement

import (
	"github.com/gin-gonic/gin"
)

// SetupSettlementRoutes configures the payment verification route
func SetupSettlementRoutes(rg *gin.RouterGroup, controller *Controller) {
	payment := rg.Group("/payment")
	{
		payment.POST("/verify", controller.VerifyPayment) // POST /api/v1/payment/verify
	}
}
