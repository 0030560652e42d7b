package tickets

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

// Catalog handles GET /api/v1/catalog/tickets (public)
func (c *Controller) Catalog(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"data": Catalog()})
}

// List handles GET /api/v1/admin/tickets (operator only)
func (c *Controller) List(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	if email := ctx.Query("email"); email != "" {
		list, err := c.service.GetByEmail(ctx.Request.Context(), email)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tickets"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": list, "total": len(list)})
		return
	}

	list, total, err := c.service.List(ctx.Request.Context(), limit, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tickets"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":   list,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Get handles GET /api/v1/admin/tickets/:orderId (operator only)
func (c *Controller) Get(ctx *gin.Context) {
	orderID := ctx.Param("orderId")
	if orderID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return
	}

	ticket, err := c.service.GetByOrderID(ctx.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ticket"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": ticket})
}

// Resend handles POST /api/v1/admin/tickets/:orderId/resend (operator only)
func (c *Controller) Resend(ctx *gin.Context) {
	orderID := ctx.Param("orderId")
	if orderID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return
	}

	ticket, err := c.service.Resend(ctx.Request.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		case errors.Is(err, ErrNotConfirmed):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Only confirmed tickets can be resent"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend ticket"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Ticket sent to " + ticket.Email,
		"data":    ticket,
	})
}
