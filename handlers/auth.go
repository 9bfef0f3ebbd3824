package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// RequireAdminToken checks the bearer token against a bcrypt hash.
// An empty hash leaves the route open.
func RequireAdminToken(tokenHash string) gin.HandlerFunc {
	if tokenHash == "" {
		log.Println("Warning: ADMIN_TOKEN_HASH not set, admin endpoints are unauthenticated")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	hash := []byte(tokenHash)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing bearer token",
				},
			})
			return
		}

		if err := bcrypt.CompareHashAndPassword(hash, []byte(token)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid token",
				},
			})
			return
		}

		c.Next()
	}
}
