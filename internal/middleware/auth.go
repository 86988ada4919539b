package middleware

import (
	"net/http"
	"strings"

	"russify/internal/pkg/jwt"
	"russify/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the bearer token and puts user_id and role into the
// gin context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		if !setClaims(c, jwtService, parts[1]) {
			return
		}
		c.Next()
	}
}

// OptionalJWTAuth sets the identity when a valid bearer token is present and
// lets anonymous requests through unchanged.
func OptionalJWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
			if claims, err := jwtService.ValidateToken(parts[1]); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}

// QueryTokenAuth reads the token from ?token=, for websocket upgrades where
// browsers cannot set headers.
func QueryTokenAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "token query parameter is required")
			return
		}
		if !setClaims(c, jwtService, token) {
			return
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, jwtService *jwt.Service, token string) bool {
	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return false
	}
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	return true
}
