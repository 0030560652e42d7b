package dialogue

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateSession handles POST /api/v1/dialogue/sessions
func (c *Controller) CreateSession(ctx *gin.Context) {
	session, err := c.service.CreateSession(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dialogue session"})
		return
	}

	ctx.JSON(http.StatusCreated, sessionView(session))
}

// GetSession handles GET /api/v1/dialogue/sessions/:id
func (c *Controller) GetSession(ctx *gin.Context) {
	session, err := c.service.GetSession(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	ctx.JSON(http.StatusOK, sessionView(session))
}

// Dispatch handles POST /api/v1/dialogue/sessions/:id/dispatch
func (c *Controller) Dispatch(ctx *gin.Context) {
	var req DispatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Action is required"})
		return
	}

	session, err := c.service.Dispatch(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
		case errors.Is(err, ErrUnknownAction):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dispatch action"})
		}
		return
	}

	ctx.JSON(http.StatusOK, sessionView(session))
}

// DeleteSession handles DELETE /api/v1/dialogue/sessions/:id
func (c *Controller) DeleteSession(ctx *gin.Context) {
	if err := c.service.ResetSession(ctx.Request.Context(), ctx.Param("id")); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset session"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// sessionView is the read contract for the presentation layer: the rendered
// message/option log plus the current input mode.
func sessionView(session *Session) gin.H {
	return gin.H{
		"id":         session.ID,
		"step":       session.Step,
		"input_mode": session.InputMode(),
		"messages":   session.Messages,
	}
}
