package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	userHeader = "X-User-ID"
	roleHeader = "X-User-Role"

	identityKey = "identity"
)

// Identity is who is acting, as asserted by the gateway in front of this
// service. Authentication itself happens upstream.
type Identity struct {
	UserID string
	Role   string
}

// RequireIdentity rejects requests that arrive without the gateway identity
// headers.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity{
			UserID: c.GetHeader(userHeader),
			Role:   c.GetHeader(roleHeader),
		}
		if id.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing identity",
			})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func GetIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RequireCronSecret guards the job-trigger endpoints with a shared secret.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader("X-Cron-Secret")
		if given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid cron secret",
			})
			return
		}
		c.Next()
	}
}
