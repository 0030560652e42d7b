package dialogue

import (
	"github.com/gin-gonic/gin"
)

// SetupDialogueRoutes configures the dialogue session routes
func SetupDialogueRoutes(rg *gin.RouterGroup, controller *Controller) {
	sessions := rg.Group("/dialogue/sessions")
	{
		sessions.POST("", controller.CreateSession)          // POST   /api/v1/dialogue/sessions
		sessions.GET("/:id", controller.GetSession)          // GET    /api/v1/dialogue/sessions/:id
		sessions.POST("/:id/dispatch", controller.Dispatch)  // POST   /api/v1/dialogue/sessions/:id/dispatch
		sessions.DELETE("/:id", controller.DeleteSession)    // DELETE /api/v1/dialogue/sessions/:id
	}
}
