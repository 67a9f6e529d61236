package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	security "snappy/tools/security"
)

// CtxUserIDKey is where Auth stores the verified caller identity.
const CtxUserIDKey = "authUserId"

// Auth verifies the access token on REST routes. Accepts either the legacy
// x-auth-token header or Authorization: Bearer.
func Auth(opts security.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("x-auth-token"))
		if token == "" {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "no token, authorization denied"})
			return
		}

		userID, err := security.Verify(opts, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "token is not valid"})
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
