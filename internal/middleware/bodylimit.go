package middleware

import (
	"net/http"

	"russify/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at n bytes. Reads past the cap fail, which
// surfaces as a binding error in handlers.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.Header("Connection", "close")
			response.Abort(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body is too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
