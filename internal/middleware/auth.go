package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tvanh/huiledger/internal/auth"
	"github.com/tvanh/huiledger/internal/service"
)

// identityKey is the gin context key for the authenticated caller.
const identityKey = "identity"

// RequireAuth validates the Bearer token and stores the caller identity in
// the request context. Requests without a valid token are rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(identityKey, service.Identity{
			UserID:      claims.UserID,
			DisplayName: claims.DisplayName,
			Email:       claims.Email,
		})
		c.Next()
	}
}

// CurrentIdentity returns the authenticated caller stored by RequireAuth.
// The zero Identity is returned on unauthenticated routes.
func CurrentIdentity(c *gin.Context) service.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(service.Identity); ok {
			return id
		}
	}
	return service.Identity{}
}
