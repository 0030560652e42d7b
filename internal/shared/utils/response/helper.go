package response

import "github.com/gin-gonic/gin"

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Error writes an error envelope with no payload
func Error(c *gin.Context, code int, message string) {
	RespondJSON(c, "error", code, message, nil, nil)
}

// ErrorWithDetails writes an error envelope carrying structured details,
// typically validation failures or retry hints
func ErrorWithDetails(c *gin.Context, code int, message string, details interface{}) {
	RespondJSON(c, "error", code, message, nil, details)
}
