package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DeviceAuth enforces bearer JWT tokens signed with HS256. Parsed claims
// land in the context under "claims" for handlers that need the device id.
func DeviceAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// DeviceID extracts the authenticated device id from the request context.
func DeviceID(c *gin.Context) string {
	claimsAny, ok := c.Get("claims")
	if !ok {
		return ""
	}
	claims, _ := claimsAny.(Claims)
	return claims.Subject
}
