package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// Validate token
		claims, err := ValidateToken(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Set user information in context
		c.Set("uid", claims.UID)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// GetUID retrieves the authenticated user's Pi UID from the context
func GetUID(c *gin.Context) (string, bool) {
	uid, exists := c.Get("uid")
	if !exists {
		return "", false
	}

	id, ok := uid.(string)
	return id, ok && id != ""
}

// GetUsername retrieves the authenticated user's name from the context
func GetUsername(c *gin.Context) (string, bool) {
	name, exists := c.Get("username")
	if !exists {
		return "", false
	}

	username, ok := name.(string)
	return username, ok
}
