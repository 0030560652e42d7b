package settlement

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	verifier *Verifier
}

func NewController(verifier *Verifier) *Controller {
	return &Controller{verifier: verifier}
}

// VerifyPayment handles POST /api/v1/payment/verify
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	var req VerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification payload"})
		return
	}

	result, err := c.verifier.Verify(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDeliveryFailed):
			// Payment is settled; only the artifact delivery faulted. The
			// caller gets the settled outcome plus the retriable fault.
			ctx.JSON(http.StatusOK, gin.H{
				"verified": true,
				"error":    "Ticket delivery failed, will be retried",
			})
		case errors.Is(err, ErrUnknownOrder):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown order"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Payment verification failed"})
		}
		return
	}

	if !result.Verified {
		ctx.JSON(http.StatusBadRequest, gin.H{"verified": false})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"verified": true,
		"message":  "Payment verified and ticket sent to email",
	})
}
