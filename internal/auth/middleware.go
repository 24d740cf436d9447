package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/interfaces"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

const claimsContextKey = "auth_claims"

// Authenticate extracts and verifies the bearer token, attaching the decoded
// claims to the request context. A missing token is unauthorized; a token
// that is present but fails verification is a bad request, so the two cases
// stay distinguishable to clients.
func Authenticate(tokens interfaces.TokenService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    types.ErrCodeMissingToken,
					"message": "Authorization token required",
				},
			})
			return
		}

		tokenString := header
		if strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			log.Security("invalid_token_rejected", "medium", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    types.ErrCodeInvalidToken,
					"message": "Invalid or expired token",
				},
			})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRoles restricts a route to the given roles. It must run after
// Authenticate.
func RequireRoles(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    types.ErrCodeMissingToken,
					"message": "Authorization token required",
				},
			})
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    types.ErrCodeForbidden,
				"message": "Insufficient permissions",
			},
		})
	}
}

// ClaimsFromContext returns the verified claims attached by Authenticate
func ClaimsFromContext(c *gin.Context) (*types.Claims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*types.Claims)
	return claims, ok
}
