package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/fleet-tracker-go/internal/auth"
	"github.com/jengzang/fleet-tracker-go/pkg/response"
)

const claimsKey = "claims"

// Authenticate requires a valid bearer access token and stores its claims
// on the context.
func Authenticate(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.ErrorAbort(c, http.StatusUnauthorized, "access token required")
			return
		}

		claims, err := tokens.ParseAccess(parts[1])
		if err != nil {
			_ = c.Error(err)
			response.ErrorAbort(c, http.StatusForbidden, "invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// It must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil || !claims.IsAdmin() {
			response.ErrorAbort(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

// Claims returns the authenticated caller, or nil outside Authenticate.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
