package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hiltonrealtorsnm/frontend/internal/auth"
)

// ContextKeyRole holds the admin token's role claim in the Gin context.
const ContextKeyRole = "role"

// TokenReader yields the stored admin token; an expired one reads as "".
type TokenReader interface {
	Token(ctx context.Context) (string, error)
}

// AdminSessionMiddleware lets a request through only while an admin token
// is stored, the way admin pages send a visitor without one to login.
// The slot is shared by every caller of the process, not kept per client.
func AdminSessionMiddleware(tokens TokenReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokens.Token(c.Request.Context())
		if err != nil {
			log.Printf("Error reading admin token: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to read session"})
			return
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required", "route": "admin/login"})
			return
		}

		if claims, err := auth.ParseClaims(token); err == nil {
			c.Set(ContextKeyRole, claims.Role)
		}
		c.Next()
	}
}
