package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"silverarcade/models"
	"silverarcade/utils"
)

// AuthRequired verifies the Bearer token and attaches the resolved actor to
// the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Authorization header missing or malformed",
			})
			return
		}

		actor, err := utils.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Invalid or expired token",
			})
			return
		}

		c.Set("actor", actor)
		c.Next()
	}
}

// RequireAdmin rejects authenticated requests whose actor is not an admin.
// Must run after AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("actor")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Authentication required",
			})
			return
		}
		actor, ok := v.(models.Actor)
		if !ok || actor.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false, "message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}
