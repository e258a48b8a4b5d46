package utils

import (
	"FileVault/internal/policy"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the JWT and stores the principal in the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		claims, err := VerifyToken(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Set("principal", policy.Principal{
			ID:       claims.UserId,
			UserName: claims.Username,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// CurrentPrincipal pulls the authenticated principal out of the context.
func CurrentPrincipal(c *gin.Context) policy.Principal {
	return c.MustGet("principal").(policy.Principal)
}
