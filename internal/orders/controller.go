package orders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateOrder handles POST /api/v1/payment/create-order
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Amount and email are required"})
		return
	}

	resp, err := c.service.CreateOrder(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrGatewayUnavailable):
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to create order"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ListIntents handles GET /api/v1/admin/payments (operator only)
func (c *Controller) ListIntents(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	intents, total, err := c.service.ListIntents(ctx.Request.Context(), limit, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment intents"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":   intents,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetIntent handles GET /api/v1/admin/payments/:orderId (operator only)
func (c *Controller) GetIntent(ctx *gin.Context) {
	orderID := ctx.Param("orderId")
	if orderID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return
	}

	intent, err := c.service.GetIntent(ctx.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Payment intent not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payment intent"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": intent})
}
