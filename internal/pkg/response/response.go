package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes a success payload. Fields of data sit next to "success" at the
// top level, which is the shape portal clients read.
func OK(c *gin.Context, statusCode int, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// Error writes a failure. The text is duplicated into "message" and "error"
// so clients can surface either field verbatim.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"code":    code,
		"message": message,
		"error":   message,
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"code":    code,
		"message": message,
		"error":   message,
		"details": details,
	})
}

// Invalid writes a 400 VALIDATION_ERROR, listing fields when there are any.
func Invalid(c *gin.Context, message string, fields map[string]string) {
	if len(fields) == 0 {
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
		return
	}
	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", message, fields)
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}
